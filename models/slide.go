package models

// Slide is one logically distinct content unit extracted from a rendered
// page. Indices are assigned after short-text filtering, so they form a
// dense 0-based sequence in document order.
type Slide struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// NarrationResult pairs a generated narration with the slide it came from.
// SourceIndex refers to Slide.Index.
type NarrationResult struct {
	Text        string `json:"text"`
	SourceIndex int    `json:"source_index"`
}

// BatchOutcome aggregates the result of a batch analysis run.
// RequestedCount is the number of slides the segmenter detected before
// capping; ProducedCount always equals len(Narrations).
type BatchOutcome struct {
	Slides         []Slide           `json:"slides"`
	Narrations     []NarrationResult `json:"narrations"`
	RequestedCount int               `json:"requested_count"`
	ProducedCount  int               `json:"produced_count"`
}

// SingleResult is the outcome of single-slide analysis, where the whole
// page is treated as one passage.
type SingleResult struct {
	Narration       string `json:"narration"`
	TextLength      int    `json:"text_length"`
	NarrationLength int    `json:"narration_length"`
}
