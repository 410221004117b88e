// Package jwt signs and verifies HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5.
//
// A Service is bound to one signing key, issuer and audience. Generate signs
// any claims type that embeds RegisteredClaims; Parse verifies the signature,
// the algorithm, iss, aud and exp before filling the claims:
//
//	svc, err := jwt.New(key, jwt.WithIssuer("taskflask"), jwt.WithAudience("taskflask-api"))
//
//	type Claims struct {
//	    jwt.RegisteredClaims
//	    Org string `json:"org"`
//	}
//
//	token, err := svc.Generate(&Claims{RegisteredClaims: svc.Registered("user-id", "session-id", time.Hour)})
//
//	var claims Claims
//	err = svc.Parse(token, &claims) // ErrExpiredToken, ErrInvalidToken
//
// Token extractors pull a raw token out of an HTTP request (Authorization
// header, cookie or custom header).
package jwt
