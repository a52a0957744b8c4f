package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/msomdec/shoplist/internal/domain"
)

// PasswordSymbols is the set of characters that satisfy the symbol rule of
// the password policy.
const PasswordSymbols = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?`~"

const minPasswordLength = 8

// Validator wraps go-playground/validator and converts failures into
// domain.ErrInvalidInput with a readable message.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a validator that reports JSON field names and knows
// the "password" policy tag.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return PasswordProblem(fl.Field().String()) == ""
	})

	return &Validator{v: v}
}

// Struct validates s and returns the first failure as ErrInvalidInput.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fe := fieldErrs[0]
	return fmt.Errorf("%w: %s %s", domain.ErrInvalidInput, fe.Field(), friendlyMessage(fe))
}

// IsEmail reports whether s matches the address grammar used at registration.
func (v *Validator) IsEmail(s string) bool {
	return v.v.Var(s, "required,email") == nil
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "password":
		return PasswordProblem(fe.Value().(string))
	default:
		return "is invalid"
	}
}

// PasswordProblem describes the first rule of the password policy that pw
// breaks, or returns "" when pw is acceptable.
func PasswordProblem(pw string) string {
	if len(pw) < minPasswordLength {
		return fmt.Sprintf("must be at least %d characters long", minPasswordLength)
	}

	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}

	switch {
	case !upper:
		return "must contain at least one uppercase letter"
	case !lower:
		return "must contain at least one lowercase letter"
	case !digit:
		return "must contain at least one digit"
	case !symbol:
		return "must contain at least one symbol (" + PasswordSymbols + ")"
	}
	return ""
}

// parseID checks that id is a well-formed identifier before any query runs
// and returns its canonical form.
func parseID(kind, id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: invalid %s id", domain.ErrInvalidInput, kind)
	}
	return parsed.String(), nil
}
