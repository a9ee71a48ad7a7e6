package auth

import (
	"unicode"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is bcrypt's input limit
	MaxPasswordBytes = 72
)

// CheckPasswordPolicy enforces the password rules for new accounts
func CheckPasswordPolicy(plain string) error {
	if len([]rune(plain)) < MinPasswordLength {
		return types.ValidationError("password", "password must be at least 8 characters")
	}
	if len(plain) > MaxPasswordBytes {
		return types.ValidationError("password", "password must be at most 72 bytes")
	}

	var letter, digit bool
	for _, r := range plain {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return types.ValidationError("password", "password must contain at least one letter and one digit")
	}
	return nil
}
