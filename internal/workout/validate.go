package workout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/2beens/workoutplanner/internal/calendar"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that knows the planner's custom tags:
// progression, weightunit, massunit, weekday and isodate.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	mustRegister(v, "progression", func(fl validator.FieldLevel) bool {
		return ProgressionType(fl.Field().String()).IsValid()
	})
	mustRegister(v, "weightunit", func(fl validator.FieldLevel) bool {
		return WeightUnit(fl.Field().String()).IsValid()
	})
	mustRegister(v, "massunit", func(fl validator.FieldLevel) bool {
		return MassUnit(fl.Field().String()).IsValid()
	})
	mustRegister(v, "weekday", func(fl validator.FieldLevel) bool {
		return calendar.Day(fl.Field().String()).IsValid()
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		return calendar.IsISODate(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %s", tag, err))
	}
}

// DescribeValidationError turns validator errors into one readable line.
// Other errors are returned as their message.
func DescribeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	// drop the root struct name
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "progression":
		return fmt.Sprintf("%s must be one of WEIGHT_REPS, HOLD_SECONDS, REPS_ONLY, DISTANCE_TIME", field)
	case "weightunit":
		return fmt.Sprintf("%s must be one of DEFAULT, KG, LBS", field)
	case "massunit":
		return fmt.Sprintf("%s must be KG or LBS", field)
	case "weekday":
		return fmt.Sprintf("%s must be a day name", field)
	case "isodate":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
