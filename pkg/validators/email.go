// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmailEmpty      = errors.New("E-mail is required field")
	ErrEmailInvalid    = errors.New("E-mail address is not valid")
	ErrUsernameEmpty   = errors.New("username is required")
	ErrUsernameInvalid = errors.New("Username is not valid")
)

const maxEmailLength = 120

var (
	v            = validator.New(validator.WithRequiredStructEnabled())
	usernameExpr = regexp.MustCompile(`^\w{4,20}$`)
)

func init() {
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameExpr.MatchString(fl.Field().String())
	})
}

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if len(e) > maxEmailLength {
		return ErrEmailInvalid
	}

	if err := v.Var(e, "email"); err != nil {
		return ErrEmailInvalid
	}

	return nil
}

// UsernameValidator accepts 4 to 20 word characters (letters, digits and
// underscores)
func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if err := v.Var(u, "username"); err != nil {
		return ErrUsernameInvalid
	}

	return nil
}
