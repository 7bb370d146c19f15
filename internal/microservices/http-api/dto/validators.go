package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// ReservedUsername would shadow the /users/me route.
const ReservedUsername = "me"

// RegisterValidators installs the custom binding tags used by the DTOs:
// "slug" and "username".
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("slug", validateSlug); err != nil {
		return err
	}
	return v.RegisterValidation("username", validateUsername)
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

func validateUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != ReservedUsername && usernamePattern.MatchString(s)
}

// ValidUsername applies the username rule outside request binding.
func ValidUsername(s string) bool {
	return s != "" && len(s) <= 150 && s != ReservedUsername && usernamePattern.MatchString(s)
}
