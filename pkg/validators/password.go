package validators

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

var (
	ErrPasswordNumeric    = errors.New("Password is entirely numeric")
	ErrPasswordAlphabetic = errors.New("Password is entirely alphabetic")
	ErrPasswordTooShort   = errors.New("Password is less than 4 characters")
	ErrPasswordTooLong    = errors.New("Password is greater than 50 characters")
	ErrPasswordMismatch   = errors.New("Password and password confirm must be the same")
)

const (
	minPasswordLength = 4
	maxPasswordLength = 50
)

// PasswordValidator rejects passwords made only of digits or only of
// letters, and passwords outside the allowed length. Checks run in that
// order, so "123" is reported as numeric rather than too short.
func PasswordValidator(p string) error {
	if p != "" {
		if all(p, unicode.IsDigit) {
			return ErrPasswordNumeric
		}

		if all(p, unicode.IsLetter) {
			return ErrPasswordAlphabetic
		}
	}

	n := utf8.RuneCountInString(p)

	if n < minPasswordLength {
		return ErrPasswordTooShort
	}

	if n > maxPasswordLength {
		return ErrPasswordTooLong
	}

	return nil
}

func all(s string, f func(rune) bool) bool {
	for _, r := range s {
		if !f(r) {
			return false
		}
	}

	return true
}
