package renderer

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Mode selects how long the renderer lets client-side code settle after
// the network goes idle. Batch pages tend to lazy-build their slides, so
// they get a longer settle window.
type Mode int

const (
	ModeSingle Mode = iota
	ModeBatch
)

// Renderer loads a URL in a browser context and returns the final DOM.
type Renderer interface {
	Render(ctx context.Context, url string, mode Mode) (*Page, error)
}

// noiseSelector matches elements that carry no slide content.
const noiseSelector = "script, style, noscript, nav, header, footer, iframe"

// Page is a rendered document after noise removal. It is created per
// request and holds no browser resources; the underlying browser page is
// released before Render returns.
type Page struct {
	doc  *goquery.Document
	text string
}

// ParsePage builds a Page from final HTML. Non-content elements are
// removed before any text extraction.
func ParsePage(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	doc.Find(noiseSelector).Remove()

	return &Page{
		doc:  doc,
		text: NormalizeSpace(doc.Text()),
	}, nil
}

// Text returns the whole-page text with whitespace collapsed.
func (p *Page) Text() string {
	return p.text
}

// Doc exposes the parsed document for selector-based segmentation.
func (p *Page) Doc() *goquery.Document {
	return p.doc
}

// NormalizeSpace collapses runs of whitespace into single spaces.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
