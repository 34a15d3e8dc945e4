package handlers

import (
	"github.com/gofiber/fiber/v2"

	"slidecast/config"
	"slidecast/models"
)

// NewHealthHandler reports liveness and whether the narration credential
// is configured. A missing credential is reported here rather than
// blocking startup; narration calls fail when actually invoked.
func NewHealthHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		message := "Slide narration service is running"
		if cfg.Narration.APIKey == "" {
			message = "Slide narration service is running, but no API key is configured"
		}

		return c.JSON(models.HealthResponse{
			Status:           "ok",
			Message:          message,
			APIKeyConfigured: cfg.Narration.APIKey != "",
		})
	}
}
