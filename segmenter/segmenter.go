package segmenter

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"slidecast/models"
	"slidecast/renderer"
)

// minSlideTextLen is the trimmed length a candidate must exceed to count
// as a slide; anything at or below it is decorative.
const minSlideTextLen = 20

// slideSelectors is the candidate pattern list, most specific structural
// markers first. The first selector with at least one match wins and the
// rest are ignored.
var slideSelectors = []string{
	".slide",
	".swiper-slide",
	"[data-slide]",
	`[class*="slide"]`,
	"section",
	"article",
	".page",
}

// Segment partitions a rendered page into slides. When no selector
// matches, the whole page is treated as a single candidate. Candidates
// whose trimmed text is too short are dropped, and indices are assigned
// after filtering as a dense 0-based sequence in document order.
// Segmentation is deterministic: the same page always yields the same
// slide list.
func Segment(page *renderer.Page) []models.Slide {
	candidates := collect(page)

	slides := make([]models.Slide, 0, len(candidates))
	for _, text := range candidates {
		trimmed := strings.TrimSpace(text)
		if utf8.RuneCountInString(trimmed) <= minSlideTextLen {
			continue
		}
		slides = append(slides, models.Slide{
			Index: len(slides),
			Text:  trimmed,
		})
	}

	return slides
}

func collect(page *renderer.Page) []string {
	for _, selector := range slideSelectors {
		sel := page.Doc().Find(selector)
		if sel.Length() == 0 {
			continue
		}

		texts := make([]string, 0, sel.Length())
		sel.Each(func(_ int, s *goquery.Selection) {
			texts = append(texts, renderer.NormalizeSpace(s.Text()))
		})
		return texts
	}

	// No structural markers anywhere: the whole page is one slide.
	return []string{page.Text()}
}
