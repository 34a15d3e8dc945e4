package slides

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"slidecast/config"
	"slidecast/narration"
	"slidecast/renderer"
	"slidecast/validation"
)

type fakeRenderer struct {
	html    string
	err     error
	calls   int
	lastURL string
}

func (f *fakeRenderer) Render(_ context.Context, url string, _ renderer.Mode) (*renderer.Page, error) {
	f.calls++
	f.lastURL = url
	if f.err != nil {
		return nil, f.err
	}
	return renderer.ParsePage(f.html)
}

type fakeGenerator struct {
	requests []narration.Request
	failOn   map[int]bool // 0-based call index
	err      error
}

func (f *fakeGenerator) Generate(_ context.Context, req narration.Request) (string, error) {
	call := len(f.requests)
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if f.failOn[call] {
		return "", fmt.Errorf("upstream failure on call %d", call)
	}
	return fmt.Sprintf("narration-%d", call), nil
}

func newTestService(r *fakeRenderer, g *fakeGenerator, cfg Config) Service {
	return NewService(
		r,
		g,
		validation.NewValidator(&config.Config{}),
		rate.NewLimiter(rate.Inf, 1),
		cfg,
		zerolog.Nop(),
	)
}

func defaultConfig() Config {
	return Config{MaxSlides: 50, SingleTextLimit: 2000, BatchTextLimit: 1500}
}

func deckHTML(slideCount int) string {
	var b strings.Builder
	b.WriteString("<body>")
	for i := 0; i < slideCount; i++ {
		fmt.Fprintf(&b, `<div class="slide">Slide %d body with enough text to pass the filter.</div>`, i+1)
	}
	b.WriteString("</body>")
	return b.String()
}

func TestAnalyzeBatchOrderAndCounts(t *testing.T) {
	r := &fakeRenderer{html: deckHTML(3)}
	g := &fakeGenerator{}
	svc := newTestService(r, g, defaultConfig())

	outcome, err := svc.AnalyzeBatch(context.Background(), "https://example.com/deck", 0)
	if err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}

	if outcome.RequestedCount != 3 {
		t.Errorf("Expected requested count 3, got %d", outcome.RequestedCount)
	}
	if outcome.ProducedCount != 3 || len(outcome.Narrations) != 3 {
		t.Errorf("Expected 3 narrations, got produced=%d len=%d", outcome.ProducedCount, len(outcome.Narrations))
	}
	for i, n := range outcome.Narrations {
		if n.Text != fmt.Sprintf("narration-%d", i) {
			t.Errorf("Narration %d out of order: %q", i, n.Text)
		}
		if n.SourceIndex != i {
			t.Errorf("Narration %d has source index %d", i, n.SourceIndex)
		}
	}
}

func TestAnalyzeBatchCapsSlides(t *testing.T) {
	cfg := defaultConfig()
	cfg.MaxSlides = 2
	r := &fakeRenderer{html: deckHTML(5)}
	g := &fakeGenerator{}
	svc := newTestService(r, g, cfg)

	outcome, err := svc.AnalyzeBatch(context.Background(), "https://example.com/deck", 0)
	if err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}

	if outcome.RequestedCount != 5 {
		t.Errorf("Expected requested count 5, got %d", outcome.RequestedCount)
	}
	if outcome.ProducedCount != 2 || len(outcome.Narrations) != 2 {
		t.Errorf("Expected cap at 2, got produced=%d len=%d", outcome.ProducedCount, len(outcome.Narrations))
	}
	if len(g.requests) != 2 {
		t.Errorf("Expected 2 generator calls, got %d", len(g.requests))
	}
}

func TestAnalyzeBatchPositionRoles(t *testing.T) {
	r := &fakeRenderer{html: deckHTML(4)}
	g := &fakeGenerator{}
	svc := newTestService(r, g, defaultConfig())

	if _, err := svc.AnalyzeBatch(context.Background(), "https://example.com/deck", 0); err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}

	want := []narration.Role{narration.RoleFirst, narration.RoleMiddle, narration.RoleMiddle, narration.RoleLast}
	for i, req := range g.requests {
		if req.Role != want[i] {
			t.Errorf("Call %d role = %s, want %s", i, req.Role, want[i])
		}
	}
}

func TestAnalyzeBatchRolesFollowCappedList(t *testing.T) {
	// With a cap of 2 out of 4 slides, the second processed slide is the
	// last of the capped list and must get the closing role.
	cfg := defaultConfig()
	cfg.MaxSlides = 2
	r := &fakeRenderer{html: deckHTML(4)}
	g := &fakeGenerator{}
	svc := newTestService(r, g, cfg)

	if _, err := svc.AnalyzeBatch(context.Background(), "https://example.com/deck", 0); err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}

	if g.requests[0].Role != narration.RoleFirst {
		t.Errorf("First role = %s", g.requests[0].Role)
	}
	if g.requests[1].Role != narration.RoleLast {
		t.Errorf("Second role = %s, want last", g.requests[1].Role)
	}
}

func TestAnalyzeBatchFailureIsolation(t *testing.T) {
	r := &fakeRenderer{html: deckHTML(3)}
	g := &fakeGenerator{failOn: map[int]bool{1: true}}
	svc := newTestService(r, g, defaultConfig())

	outcome, err := svc.AnalyzeBatch(context.Background(), "https://example.com/deck", 0)
	if err != nil {
		t.Fatalf("AnalyzeBatch must not fail when one slide fails: %v", err)
	}

	if len(outcome.Narrations) != 3 {
		t.Fatalf("Expected 3 narrations, got %d", len(outcome.Narrations))
	}
	if outcome.Narrations[0].Text != "narration-0" {
		t.Errorf("Slide 0 affected by slide 1 failure: %q", outcome.Narrations[0].Text)
	}
	if want := "Let's take a look at the content of slide 2."; outcome.Narrations[1].Text != want {
		t.Errorf("Expected fallback %q, got %q", want, outcome.Narrations[1].Text)
	}
	if outcome.Narrations[2].Text != "narration-2" {
		t.Errorf("Slide 2 affected by slide 1 failure: %q", outcome.Narrations[2].Text)
	}
}

func TestAnalyzeBatchAllFailuresStillComplete(t *testing.T) {
	r := &fakeRenderer{html: deckHTML(2)}
	g := &fakeGenerator{err: fmt.Errorf("generator down")}
	svc := newTestService(r, g, defaultConfig())

	outcome, err := svc.AnalyzeBatch(context.Background(), "https://example.com/deck", 0)
	if err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}
	if outcome.ProducedCount != 2 {
		t.Errorf("Expected 2 fallback narrations, got %d", outcome.ProducedCount)
	}
	for i, n := range outcome.Narrations {
		want := fmt.Sprintf("Let's take a look at the content of slide %d.", i+1)
		if n.Text != want {
			t.Errorf("Narration %d = %q, want %q", i, n.Text, want)
		}
	}
}

func TestAnalyzeBatchTruncatesSlideText(t *testing.T) {
	cfg := defaultConfig()
	cfg.BatchTextLimit = 30
	long := strings.Repeat("word ", 50)
	html := fmt.Sprintf(`<body><div class="slide">%s</div></body>`, long)
	r := &fakeRenderer{html: html}
	g := &fakeGenerator{}
	svc := newTestService(r, g, cfg)

	if _, err := svc.AnalyzeBatch(context.Background(), "https://example.com/deck", 0); err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}

	if got := len([]rune(g.requests[0].SlideText)); got > 30 {
		t.Errorf("Slide text not truncated: %d runes", got)
	}
}

func TestAnalyzeBatchRenderFailureAborts(t *testing.T) {
	r := &fakeRenderer{err: fmt.Errorf("navigation timeout")}
	g := &fakeGenerator{}
	svc := newTestService(r, g, defaultConfig())

	if _, err := svc.AnalyzeBatch(context.Background(), "https://example.com/deck", 0); err == nil {
		t.Fatal("Expected error when rendering fails")
	}
	if len(g.requests) != 0 {
		t.Errorf("Generator must not be called after render failure, got %d calls", len(g.requests))
	}
}

func TestAnalyzeBatchShortPageYieldsEmptyOutcome(t *testing.T) {
	r := &fakeRenderer{html: "<body><p>tiny</p></body>"}
	g := &fakeGenerator{}
	svc := newTestService(r, g, defaultConfig())

	outcome, err := svc.AnalyzeBatch(context.Background(), "https://example.com/deck", 0)
	if err != nil {
		t.Fatalf("AnalyzeBatch failed: %v", err)
	}

	if outcome.RequestedCount != 0 || outcome.ProducedCount != 0 || len(outcome.Narrations) != 0 {
		t.Errorf("Expected empty outcome, got %+v", outcome)
	}
	if len(g.requests) != 0 {
		t.Errorf("Generator must not be called for an empty deck")
	}
}

func TestAnalyzeBatchInvalidURLSkipsRendering(t *testing.T) {
	r := &fakeRenderer{html: deckHTML(1)}
	g := &fakeGenerator{}
	svc := newTestService(r, g, defaultConfig())

	if _, err := svc.AnalyzeBatch(context.Background(), "not-a-url", 0); err == nil {
		t.Fatal("Expected validation error")
	}
	if r.calls != 0 {
		t.Errorf("Renderer must not run for invalid URLs, got %d calls", r.calls)
	}
}

func TestAnalyzeSingle(t *testing.T) {
	r := &fakeRenderer{html: "<body><p>A standalone page with narratable content on it.</p></body>"}
	g := &fakeGenerator{}
	svc := newTestService(r, g, defaultConfig())

	result, err := svc.AnalyzeSingle(context.Background(), "https://example.com/slide")
	if err != nil {
		t.Fatalf("AnalyzeSingle failed: %v", err)
	}

	if result.Narration != "narration-0" {
		t.Errorf("Unexpected narration %q", result.Narration)
	}
	if result.TextLength == 0 || result.NarrationLength == 0 {
		t.Errorf("Expected non-zero lengths, got %+v", result)
	}
	if len(g.requests) != 1 {
		t.Fatalf("Expected 1 generator call, got %d", len(g.requests))
	}
	if g.requests[0].Role != narration.RoleStandalone {
		t.Errorf("Expected standalone role, got %s", g.requests[0].Role)
	}
}

func TestAnalyzeSingleGeneratorFailureAborts(t *testing.T) {
	r := &fakeRenderer{html: "<body><p>Some content for the page body here.</p></body>"}
	g := &fakeGenerator{err: fmt.Errorf("generator down")}
	svc := newTestService(r, g, defaultConfig())

	if _, err := svc.AnalyzeSingle(context.Background(), "https://example.com/slide"); err == nil {
		t.Fatal("Expected error when generation fails in single mode")
	}
}

func TestAnalyzeSingleTruncatesPassage(t *testing.T) {
	cfg := defaultConfig()
	cfg.SingleTextLimit = 25
	r := &fakeRenderer{html: fmt.Sprintf("<body><p>%s</p></body>", strings.Repeat("content ", 40))}
	g := &fakeGenerator{}
	svc := newTestService(r, g, cfg)

	if _, err := svc.AnalyzeSingle(context.Background(), "https://example.com/slide"); err != nil {
		t.Fatalf("AnalyzeSingle failed: %v", err)
	}

	if got := len([]rune(g.requests[0].SlideText)); got > 25 {
		t.Errorf("Passage not truncated: %d runes", got)
	}
}
