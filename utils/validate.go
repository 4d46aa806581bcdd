package utils

import (
	"errors"
	"reflect"
	"strings"

	"campus-events/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "status", func(fl validator.FieldLevel) bool {
		return models.ValidStatus(fl.Field().String())
	})
	// notblank rejects whitespace-only strings
	mustRegister(v, "notblank", validators.NotBlank)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("register validation " + tag + ": " + err.Error())
	}
}

// Validate checks s against its `validate` tags and reports the first
// failing field as a readable message.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) || len(vErrors) == 0 {
		return err
	}
	fe := vErrors[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return errors.New(field + " is required")
	case "email":
		return errors.New(field + " must be a valid email address")
	case "status":
		return errors.New(field + " must be one of pending, approved, rejected")
	case "min":
		return errors.New(field + " must be at least " + fe.Param() + " characters")
	case "max":
		return errors.New(field + " must be at most " + fe.Param() + " characters")
	default:
		return errors.New(field + " is invalid")
	}
}
