package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/scheme"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	hexColor6Pattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
			return hexColor6Pattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("scheme", func(fl validator.FieldLevel) bool {
			return scheme.Valid(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}
	return nil
}

// convertValidationError reports the first failing field by its config key
// path, e.g. "defaults.color_scheme".
func convertValidationError(err error) error {
	ves, ok := err.(validator.ValidationErrors)
	if !ok || len(ves) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}
	fe := ves[0]
	field := fieldName(fe)

	var msg string
	switch fe.Tag() {
	case "hexcolor6":
		msg = fmt.Sprintf("%s: %q is not a #rrggbb color", field, fe.Value())
	case "scheme":
		msg = fmt.Sprintf("%s: unknown color scheme %q", field, fe.Value())
	case "oneof":
		msg = fmt.Sprintf("%s: must be one of %s, got %q", field, fe.Param(), fe.Value())
	case "required", "required_if":
		msg = fmt.Sprintf("%s is required", field)
	default:
		msg = fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag())
	}
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", msg)
}

func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
