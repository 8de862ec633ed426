// Package validate checks request structs against their `validate` tags and
// reports the first failing field as a localized application error.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var (
	ErrFieldRequired = apperr.Validation("validation.required")
	ErrFieldInvalid  = apperr.Validation("validation.field_invalid")
)

// Messages maps a field's JSON name to the error reported when it fails.
type Messages map[string]*apperr.Error

var std = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates s. Fields missing from msgs fall back to the generic
// required/invalid messages, which name the field.
func Struct(s interface{}, msgs Messages) error {
	err := std.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	base, ok := msgs[fe.Field()]
	if !ok {
		base = ErrFieldInvalid
		if fe.Tag() == "required" {
			base = ErrFieldRequired
		}
	}
	out := base.With("Field", fe.Field())
	out.Err = fe
	return out
}
