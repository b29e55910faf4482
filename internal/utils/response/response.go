package response

import (
	"github.com/gofiber/fiber/v2"
)

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// ServerError hides the internal failure behind a fixed message; details go
// to the server log only.
func ServerError(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, "Internal server error")
}
