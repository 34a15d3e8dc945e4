package models

// AnalyzeRequest is the body of both analysis endpoints. SlideCount is
// advisory only: it is logged for the batch endpoint but never enforced.
type AnalyzeRequest struct {
	URL        string `json:"url"`
	SlideCount int    `json:"slideCount,omitempty"`
}

// AnalyzeSlideResponse is the single-slide success payload.
type AnalyzeSlideResponse struct {
	Success         bool   `json:"success"`
	Narration       string `json:"narration"`
	TextLength      int    `json:"textLength"`
	NarrationLength int    `json:"narrationLength"`
}

// AnalyzeBatchResponse is the batch success payload. Narrations preserves
// slide order.
type AnalyzeBatchResponse struct {
	Success        bool     `json:"success"`
	Narrations     []string `json:"narrations"`
	SlideCount     int      `json:"slideCount"`
	GeneratedCount int      `json:"generatedCount"`
}

// HealthResponse reports liveness and whether the narration credential is
// configured. A missing credential does not prevent startup.
type HealthResponse struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	APIKeyConfigured bool   `json:"apiKeyConfigured"`
}
