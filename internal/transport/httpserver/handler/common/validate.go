package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"parish-app-go/internal/domain/members"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return members.ValidPhone(strings.ReplaceAll(fl.Field().String(), " ", ""))
	})
	_ = validate.RegisterValidation("civildate", func(fl validator.FieldLevel) bool {
		_, err := ParseDateRequired(fl.Field().String())
		return err == nil
	})
}

// Validate checks the struct tags of dst and turns the first failure into a
// client-facing message.
func Validate(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	first := fieldErrors[0]
	field := first.Field()
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email", field)
	case "phone":
		return fmt.Errorf("%s must contain 9 to 15 digits", field)
	case "civildate":
		return fmt.Errorf("%s must be a date (YYYY-MM-DD)", field)
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, first.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, first.Param())
	case "gt":
		return fmt.Errorf("%s must be greater than %s", field, first.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
