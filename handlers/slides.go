package handlers

import (
	"github.com/gofiber/fiber/v2"

	"slidecast/errors"
	"slidecast/models"
	"slidecast/services/slides"
)

type SlideHandler struct {
	service slides.Service
}

func NewSlideHandler(service slides.Service) *SlideHandler {
	return &SlideHandler{service: service}
}

// AnalyzeSlide handles POST /api/analyze-slide.
func (h *SlideHandler) AnalyzeSlide(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return &errors.AppError{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid request body",
			Err:     err,
		}
	}
	if req.URL == "" {
		return &errors.AppError{
			Code:    fiber.StatusBadRequest,
			Message: "URL is required",
		}
	}

	result, err := h.service.AnalyzeSingle(c.Context(), req.URL)
	if err != nil {
		return err
	}

	return c.JSON(models.AnalyzeSlideResponse{
		Success:         true,
		Narration:       result.Narration,
		TextLength:      result.TextLength,
		NarrationLength: result.NarrationLength,
	})
}

// AnalyzeSlidesBatch handles POST /api/analyze-slides-batch.
func (h *SlideHandler) AnalyzeSlidesBatch(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return &errors.AppError{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid request body",
			Err:     err,
		}
	}
	if req.URL == "" {
		return &errors.AppError{
			Code:    fiber.StatusBadRequest,
			Message: "URL is required",
		}
	}

	outcome, err := h.service.AnalyzeBatch(c.Context(), req.URL, req.SlideCount)
	if err != nil {
		return err
	}

	narrations := make([]string, 0, len(outcome.Narrations))
	for _, n := range outcome.Narrations {
		narrations = append(narrations, n.Text)
	}

	return c.JSON(models.AnalyzeBatchResponse{
		Success:        true,
		Narrations:     narrations,
		SlideCount:     outcome.RequestedCount,
		GeneratedCount: outcome.ProducedCount,
	})
}
