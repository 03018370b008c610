package api

import (
	"github.com/gofiber/fiber/v3"
)

// jsonSuccess wraps a resolution or analysis payload in the response
// envelope: {"status": "ok", "data": ...}.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError writes the error envelope with the given HTTP status. The
// message is client-facing; details stay in the logs.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
