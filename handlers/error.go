package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"slidecast/errors"
)

// ErrorHandler is the central fiber error handler. Every failure becomes
// a JSON body; 500 responses carry the underlying error message, which is
// acceptable for this deployment's trust model.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	detail := err.Error()

	if e, ok := err.(*errors.AppError); ok {
		code = e.Code
		message = e.Message
		if e.Err != nil {
			detail = e.Err.Error()
		}
	}

	log.Error().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("path", c.Path()).
		Str("method", c.Method()).
		Int("status", code).
		Err(err).
		Msg("Request error")

	payload := fiber.Map{
		"success":    false,
		"error":      message,
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
	}
	if code >= fiber.StatusInternalServerError {
		payload["message"] = detail
	}

	return c.Status(code).JSON(payload)
}
