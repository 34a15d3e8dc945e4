package slides

import (
	"context"

	"slidecast/models"
)

type Service interface {
	// AnalyzeSingle renders the page, treats its full text as one passage
	// and returns a single narration. Any failure aborts the request.
	AnalyzeSingle(ctx context.Context, url string) (*models.SingleResult, error)

	// AnalyzeBatch renders the page, segments it into slides and narrates
	// them sequentially. advisoryCount is the caller's slide count hint;
	// it is logged but never enforced.
	AnalyzeBatch(ctx context.Context, url string, advisoryCount int) (*models.BatchOutcome, error)
}

type Config struct {
	// MaxSlides caps how many segmented slides get narrated per batch.
	MaxSlides int `json:"max_slides"`

	// Character budgets applied to slide text before prompting.
	SingleTextLimit int `json:"single_text_limit"`
	BatchTextLimit  int `json:"batch_text_limit"`
}
