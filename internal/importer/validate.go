package importer

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

const (
	hhmmTag       = "hhmm"
	afterStartTag = "after_start"
)

var hhmmRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report yaml field names, which is what users edit
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(hhmmTag, hhmmValidation)
	_ = v.RegisterValidation(afterStartTag, afterStartValidation)
	return v
}

// hhmmValidation accepts 24-hour HH:MM times.
func hhmmValidation(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}

// afterStartValidation requires the field to be later than the sibling
// StartTime field.
func afterStartValidation(fl validator.FieldLevel) bool {
	start := fl.Parent().FieldByName("StartTime")
	if !start.IsValid() || start.Kind() != reflect.String {
		return false
	}
	s, err := utils.ParseTimeToMinutes(start.String())
	if err != nil {
		return false
	}
	e, err := utils.ParseTimeToMinutes(fl.Field().String())
	if err != nil {
		return false
	}
	return e > s
}

// ValidateManualSlot checks a manual slot before it is stored.
func ValidateManualSlot(slot models.ManualSlot) error {
	return describe(validate.Struct(slot))
}

// ValidateCustomCourseSlot checks a custom course slot before it is stored.
func ValidateCustomCourseSlot(slot models.CustomCourseSlot) error {
	return describe(validate.Struct(slot))
}

// describe turns validator errors into one readable error.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case hhmmTag:
		return fmt.Sprintf("%s must be a 24-hour HH:MM time, got %q", field, fe.Value())
	case afterStartTag:
		return fmt.Sprintf("%s must be after start_time", field)
	case "min", "max":
		return fmt.Sprintf("%s must be between 0 (Sunday) and 6 (Saturday), got %v", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %q", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
