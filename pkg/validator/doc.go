// Package validator builds declarative field validation out of small Rule
// values. Apply evaluates every rule and aggregates failures into
// ValidationErrors, which satisfies error and carries one entry per failed
// field so the HTTP layer can render them as a 422 response.
//
//	err := validator.Apply(
//	    validator.ValidEmail("email", email),
//	    validator.StrongPassword("password", password, validator.DefaultPasswordStrength()),
//	    validator.MaxLenString("name", name, 120),
//	)
package validator
