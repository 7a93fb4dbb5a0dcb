package middleware

import (
	"edu-classroom/internal/domain"
	"edu-classroom/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// BodyParser decodes and validates request bodies for handlers.
type BodyParser struct {
	validator *validation.Validator
}

// NewBodyParser creates a new body parser instance
func NewBodyParser(v *validation.Validator) *BodyParser {
	if v == nil {
		v = validation.NewValidator()
	}
	return &BodyParser{validator: v}
}

// Parse fills out from the JSON body and checks its `validate` tags. The
// returned error is handled by ErrorHandler.
func (bp *BodyParser) Parse(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := bp.validator.Struct(out); len(errs) > 0 {
		return errs
	}
	return nil
}

// RequireParam reads a non-empty path parameter.
func RequireParam(c *fiber.Ctx, name string) (string, error) {
	value := c.Params(name)
	if value == "" {
		return "", domain.ValidationErrors{domain.NewMissingFieldError(name)}
	}
	return value, nil
}
