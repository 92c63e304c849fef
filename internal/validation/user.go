// Package validation checks user input field by field and reports every
// violation in a fixed order: name, email, password.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/userkeeper/internal/model"
	"github.com/dtroode/userkeeper/internal/password"
)

const (
	NameMinLength     = 2
	NameMaxLength     = 50
	PasswordMinLength = 6

	MsgName            = "Name must be between 2 and 50 characters"
	MsgEmail           = "Please provide a valid email"
	MsgPassword        = "Password must be at least 6 characters long"
	MsgPasswordTooLong = "Password must be at most 72 bytes long"
	MsgPasswordMissing = "Password is required"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewUser validates registration and creation input and returns it normalized.
func NewUser(params model.CreateUserParams) (model.CreateUserParams, []model.Violation) {
	name, violations := checkName(params.Name, nil)
	email, violations := checkEmail(params.Email, violations)
	violations = checkPassword(params.Password, violations)

	return model.CreateUserParams{Name: name, Email: email, Password: params.Password}, violations
}

// Profile validates the mutable profile fields and returns them normalized.
func Profile(params model.UpdateUserParams) (model.UpdateUserParams, []model.Violation) {
	name, violations := checkName(params.Name, nil)
	email, violations := checkEmail(params.Email, violations)

	return model.UpdateUserParams{Name: name, Email: email}, violations
}

// Credentials validates login input. Password length rules are not applied
// so that a login never reveals the password policy for an account.
func Credentials(email, pass string) (string, []model.Violation) {
	email, violations := checkEmail(email, nil)
	if pass == "" {
		violations = append(violations, model.Violation{Field: "password", Message: MsgPasswordMissing})
	}
	return email, violations
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkName(name string, violations []model.Violation) (string, []model.Violation) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < NameMinLength || n > NameMaxLength {
		violations = append(violations, model.Violation{Field: "name", Message: MsgName})
	}
	return name, violations
}

func checkEmail(email string, violations []model.Violation) (string, []model.Violation) {
	email = NormalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		violations = append(violations, model.Violation{Field: "email", Message: MsgEmail})
	}
	return email, violations
}

func checkPassword(pass string, violations []model.Violation) []model.Violation {
	switch {
	case utf8.RuneCountInString(pass) < PasswordMinLength:
		violations = append(violations, model.Violation{Field: "password", Message: MsgPassword})
	case len(pass) > password.MaxLength:
		violations = append(violations, model.Violation{Field: "password", Message: MsgPasswordTooLong})
	}
	return violations
}
