package validation

import (
	"errors"
	"reflect"
	"strings"

	"edu-classroom/internal/domain"
	"edu-classroom/internal/util"

	"github.com/go-playground/validator/v10"
)

// Unbounded marks an open upper limit for NewOutOfRangeError.
const Unbounded = -1

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field names in errors use
// the json tag so they match the request body.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("ulid", func(fl validator.FieldLevel) bool {
		return util.IsULID(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates a request DTO by its `validate` tags.
func (v *Validator) Struct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}

	var out domain.ValidationErrors
	for _, fe := range fieldErrs {
		out = append(out, toDomainValidationError(fe))
	}
	return out
}

func toDomainValidationError(fe validator.FieldError) domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "gte":
		ve := domain.NewOutOfRangeError(field, fe.Value(), 0, Unbounded)
		ve.Message = field + " must be at least " + fe.Param()
		return ve
	case "max", "lte":
		ve := domain.NewOutOfRangeError(field, fe.Value(), 0, Unbounded)
		ve.Message = field + " must be at most " + fe.Param()
		return ve
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// ValidateEnrollInput checks the enrollment request before any store access.
func (v *Validator) ValidateEnrollInput(userID, courseID string, totalLessons int) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(userID) == "" {
		errs = append(errs, domain.NewMissingFieldError("userId"))
	}
	if strings.TrimSpace(courseID) == "" {
		errs = append(errs, domain.NewMissingFieldError("courseId"))
	}
	if totalLessons < 0 {
		errs = append(errs, domain.NewOutOfRangeError("totalLessons", totalLessons, 0, Unbounded))
	}
	return errs
}

// ValidateProgressInput checks a progress update before any store access.
func (v *Validator) ValidateProgressInput(progressID string, completedLessons, totalLessons int) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(progressID) == "" {
		errs = append(errs, domain.NewMissingFieldError("progressId"))
	}
	if completedLessons < 0 {
		errs = append(errs, domain.NewOutOfRangeError("completedLessons", completedLessons, 0, Unbounded))
	}
	if totalLessons < 0 {
		errs = append(errs, domain.NewOutOfRangeError("totalLessons", totalLessons, 0, Unbounded))
	}
	return errs
}

// ValidateID checks a required path identifier.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	return nil
}
