package middleware

import (
	"readum/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const validatedResultIDKey = "validated_result_id"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateResultID checks the :uuid path parameter before it is used as a
// storage key.
func (vm *ValidationMiddleware) ValidateResultID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("uuid")
		if errors := vm.validator.ValidateResultID(id); len(errors) > 0 {
			return errors
		}

		c.Locals(validatedResultIDKey, id)
		return c.Next()
	}
}

// ValidatedResultID returns the id stored by ValidateResultID.
func ValidatedResultID(c *fiber.Ctx) string {
	id, _ := c.Locals(validatedResultIDKey).(string)
	return id
}
