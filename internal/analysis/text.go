package analysis

import (
	"math"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
)

// textSpan is a run of characters sharing a baseline, assembled from the
// per-character fragments the text-layer parser produces.
type textSpan struct {
	Text     string
	X        float64 // left edge in user space
	Y        float64 // baseline in user space
	Width    float64
	FontSize float64
}

// endX returns the right edge of the span.
func (s textSpan) endX() float64 { return s.X + s.Width }

const (
	// baselineTolerance is the max vertical drift between characters of
	// one span, in points.
	baselineTolerance = 2.0
	// gapFactor is the horizontal gap (in font sizes) that splits a
	// baseline into separate spans.
	gapFactor = 1.5
)

// groupTexts assembles per-character text fragments into spans. Fragments
// arrive roughly in content-stream order; a new span starts whenever the
// baseline shifts or a wide horizontal gap appears.
func groupTexts(texts []ledongthuc.Text) []textSpan {
	var spans []textSpan
	var cur *textSpan
	var lastEnd float64

	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			spans = append(spans, *cur)
		}
		cur = nil
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if cur != nil {
			sameLine := math.Abs(t.Y-cur.Y) <= baselineTolerance
			maxGap := gapFactor * cur.FontSize
			if maxGap <= 0 {
				maxGap = gapFactor * 12
			}
			if !sameLine || t.X-lastEnd > maxGap || t.X < lastEnd-baselineTolerance {
				flush()
			}
		}
		if cur == nil {
			cur = &textSpan{
				Text:     t.S,
				X:        t.X,
				Y:        t.Y,
				FontSize: t.FontSize,
			}
		} else {
			cur.Text += t.S
		}
		lastEnd = t.X + t.W
		cur.Width = lastEnd - cur.X
		if t.FontSize > cur.FontSize {
			cur.FontSize = t.FontSize
		}
	}
	flush()
	return spans
}
