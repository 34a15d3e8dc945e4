package slides

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"slidecast/errors"
	"slidecast/models"
	"slidecast/narration"
	"slidecast/renderer"
	"slidecast/segmenter"
	"slidecast/validation"
)

type service struct {
	renderer  renderer.Renderer
	generator narration.Generator
	validator *validation.Validator
	pacer     *rate.Limiter
	config    Config
	logger    zerolog.Logger
}

// NewService wires the analysis pipeline. The pacer bounds the outbound
// request rate to the narration generator during batch runs; tests inject
// a limiter with rate.Inf.
func NewService(
	r renderer.Renderer,
	generator narration.Generator,
	validator *validation.Validator,
	pacer *rate.Limiter,
	config Config,
	logger zerolog.Logger,
) Service {
	return &service{
		renderer:  r,
		generator: generator,
		validator: validator,
		pacer:     pacer,
		config:    config,
		logger:    logger.With().Str("component", "slides").Logger(),
	}
}

func (s *service) AnalyzeSingle(ctx context.Context, url string) (*models.SingleResult, error) {
	const op = "SlideService.AnalyzeSingle"
	logger := s.logger.With().Str("operation", op).Str("url", url).Logger()
	start := time.Now()

	if err := s.validator.ValidateURL(url); err != nil {
		logger.Info().Err(err).Msg("URL validation failed")
		return nil, err
	}

	page, err := s.renderer.Render(ctx, url, renderer.ModeSingle)
	if err != nil {
		logger.Error().Err(err).Msg("Page rendering failed")
		return nil, errors.Internal(op, err, "Failed to render page")
	}

	text := page.Text()
	passage := narration.Truncate(text, s.config.SingleTextLimit)

	generated, err := s.generator.Generate(ctx, narration.Request{
		SlideText: passage,
		Role:      narration.RoleStandalone,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Narration generation failed")
		return nil, errors.Internal(op, err, "Failed to generate narration")
	}

	logger.Info().
		Int("text_length", utf8.RuneCountInString(text)).
		Int("narration_length", utf8.RuneCountInString(generated)).
		Dur("duration", time.Since(start)).
		Msg("Single-slide analysis completed")

	return &models.SingleResult{
		Narration:       generated,
		TextLength:      utf8.RuneCountInString(text),
		NarrationLength: utf8.RuneCountInString(generated),
	}, nil
}

func (s *service) AnalyzeBatch(ctx context.Context, url string, advisoryCount int) (*models.BatchOutcome, error) {
	const op = "SlideService.AnalyzeBatch"
	logger := s.logger.With().Str("operation", op).Str("url", url).Logger()
	start := time.Now()

	if advisoryCount > 0 {
		logger.Info().Int("advisory_slide_count", advisoryCount).Msg("Caller provided slide count hint")
	}

	if err := s.validator.ValidateURL(url); err != nil {
		logger.Info().Err(err).Msg("URL validation failed")
		return nil, err
	}

	page, err := s.renderer.Render(ctx, url, renderer.ModeBatch)
	if err != nil {
		// Without a rendered page there is nothing to segment; the whole
		// batch fails.
		logger.Error().Err(err).Msg("Page rendering failed")
		return nil, errors.Internal(op, err, "Failed to render page")
	}

	slides := segmenter.Segment(page)
	requested := len(slides)

	capped := slides
	if len(capped) > s.config.MaxSlides {
		capped = capped[:s.config.MaxSlides]
	}

	logger.Info().
		Int("segmented", requested).
		Int("processing", len(capped)).
		Msg("Slides segmented")

	narrations := make([]models.NarrationResult, 0, len(capped))
	for i, slide := range capped {
		// Pacing gate: the first call passes immediately, each following
		// call waits out the configured interval.
		if err := s.pacer.Wait(ctx); err != nil {
			return nil, errors.Internal(op, err, "Batch cancelled")
		}

		text, err := s.generator.Generate(ctx, narration.Request{
			SlideText: narration.Truncate(slide.Text, s.config.BatchTextLimit),
			Role:      narration.RoleFor(i, len(capped)),
		})
		if err != nil {
			// One bad upstream call degrades one slide, never the batch.
			logger.Warn().
				Err(err).
				Int("slide_index", slide.Index).
				Msg("Narration failed for slide, using fallback")
			text = fallbackNarration(i + 1)
		}

		narrations = append(narrations, models.NarrationResult{
			Text:        text,
			SourceIndex: slide.Index,
		})
	}

	logger.Info().
		Int("requested", requested).
		Int("produced", len(narrations)).
		Dur("duration", time.Since(start)).
		Msg("Batch analysis completed")

	return &models.BatchOutcome{
		Slides:         capped,
		Narrations:     narrations,
		RequestedCount: requested,
		ProducedCount:  len(narrations),
	}, nil
}

// fallbackNarration is the deterministic placeholder for a slide whose
// generation failed. ordinal is 1-based.
func fallbackNarration(ordinal int) string {
	return fmt.Sprintf("Let's take a look at the content of slide %d.", ordinal)
}
