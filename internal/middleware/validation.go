package middleware

import (
	"quiz-forge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const validatedBodyKey = "validated_body"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	if v == nil {
		v = validation.NewValidator()
	}
	return &ValidationMiddleware{validator: v}
}

// ValidateBody parses the JSON body into a fresh T, validates it and stores it for the handler.
func ValidateBody[T any](vm *ValidationMiddleware) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if err := c.BodyParser(req); err != nil {
			return validation.ValidationErrors{{Field: "body", Message: "request body must be valid JSON"}}
		}
		if err := vm.validator.Validate(req); err != nil {
			return err // This will be handled by ErrorHandler
		}
		c.Locals(validatedBodyKey, req)
		return c.Next()
	}
}

// ValidateParam checks a path parameter against a validator tag.
func (vm *ValidationMiddleware) ValidateParam(name, tag string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := vm.validator.Var(name, c.Params(name), tag); err != nil {
			return err
		}
		return c.Next()
	}
}

// Body returns the request stored by ValidateBody.
func Body[T any](c *fiber.Ctx) *T {
	req, _ := c.Locals(validatedBodyKey).(*T)
	return req
}
