package validator

import (
	"fmt"
	"strings"
	"unicode"
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {},
	"123456789": {}, "1234567890": {}, "qwerty123": {}, "qwertyuiop": {},
	"iloveyou": {}, "sunshine": {}, "princess": {}, "football": {},
	"baseball": {}, "welcome1": {}, "letmein1": {}, "trustno1": {},
	"admin123": {}, "administrator": {}, "superman": {}, "starwars": {},
	"passw0rd": {}, "p@ssw0rd": {}, "abc12345": {}, "11111111": {},
}

// PasswordStrengthConfig sets password policy.
type PasswordStrengthConfig struct {
	MinLength      int
	MaxLength      int
	MinCharClasses int // upper, lower, digit, other
}

// DefaultPasswordStrength is 8 to 72 characters with two character classes.
// 72 is the bcrypt input limit.
func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{MinLength: 8, MaxLength: 72, MinCharClasses: 2}
}

func StrongPassword(field, value string, cfg PasswordStrengthConfig) Rule {
	return Rule{
		Check: func() bool {
			if len(value) < cfg.MinLength || len(value) > cfg.MaxLength {
				return false
			}
			return charClasses(value) >= cfg.MinCharClasses
		},
		Error: ValidationError{
			Field: field,
			Message: fmt.Sprintf("must be %d-%d characters and mix at least %d character classes",
				cfg.MinLength, cfg.MaxLength, cfg.MinCharClasses),
			Key: "validation.password_strength",
		},
	}
}

func NotCommonPassword(field, value string) Rule {
	return Rule{
		Check: func() bool {
			_, common := commonPasswords[strings.ToLower(value)]
			return !common
		},
		Error: ValidationError{
			Field:   field,
			Message: "password is too common, please choose a different one",
			Key:     "validation.password_common",
		},
	}
}

func charClasses(s string) int {
	var upper, lower, digit, other bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}
	n := 0
	for _, ok := range []bool{upper, lower, digit, other} {
		if ok {
			n++
		}
	}
	return n
}
