package analysis

import "strings"

// Rule confidences. Widget annotations score 1.0; everything inferred
// scores lower, with glyph evidence ranked above bare geometry.
const (
	confGlyph     = 0.9
	confRectangle = 0.8
	confUnderline = 0.7
	confLabel     = 0.7
)

// checkboxGlyphs are characters forms use to print an empty or ticked
// checkbox inline with text.
var checkboxGlyphs = []string{"■", "□", "☐", "☑", "☒", "❏", "[ ]", "[]"}

// choiceGlyphs mark exclusive-choice options (circles).
var choiceGlyphs = []string{"○", "●", "◯", "( )", "()"}

// choiceWords are label words that signal an exclusive choice group next
// to a glyph, such as yes/no pairs.
var choiceWords = []string{"yes", "no", "male", "female", "single", "married", "other"}

// inferFields runs the layout heuristics over every page and returns the
// candidates scoring at least opts.MinConfidence. A page whose content
// stream cannot be read contributes no geometry and appends a warning;
// text-layer absence degrades silently because drawn geometry alone
// still yields candidates.
func inferFields(d *Document, opts Options, warn func(string)) []InferredCandidate {
	var out []InferredCandidate
	for page := 0; page < d.pageCount; page++ {
		geo, err := d.geometry(page)
		if err != nil {
			warnf(warn, "page %d: unreadable content stream, layout inference skipped", page+1)
		}
		spans := d.text(page)

		var cands []InferredCandidate
		cands = append(cands, rectangleCandidates(page, geo.Rects, opts.Geometry)...)
		cands = append(cands, underlineCandidates(page, geo.Lines, opts.Geometry)...)
		cands = append(cands, glyphCandidates(page, spans)...)
		cands = append(cands, labelCandidates(page, spans, opts.Geometry)...)

		for _, c := range cands {
			if c.Confidence >= opts.MinConfidence {
				out = append(out, c)
			}
		}
	}
	return out
}

// rectangleCandidates classifies drawn rectangles as checkboxes or text
// entry boxes by size and aspect ratio.
func rectangleCandidates(page int, rects []BoundingBox, g GeometryThresholds) []InferredCandidate {
	var out []InferredCandidate
	for _, r := range rects {
		w, h := r.Width(), r.Height()
		if w <= 0 || h <= 0 {
			continue
		}
		aspect := w / h
		switch {
		case w >= g.CheckboxMinSize && w <= g.CheckboxMaxSize &&
			h >= g.CheckboxMinSize && h <= g.CheckboxMaxSize &&
			aspect >= g.CheckboxMinAspect && aspect <= g.CheckboxMaxAspect:
			out = append(out, InferredCandidate{
				PageIndex:  page,
				Rect:       r,
				Kind:       PatternCheckboxBox,
				Confidence: confRectangle,
			})
		case w >= g.FieldMinWidth &&
			h >= g.FieldMinHeight && h <= g.FieldMaxHeight &&
			aspect >= g.FieldMinAspect && aspect <= g.FieldMaxAspect:
			out = append(out, InferredCandidate{
				PageIndex:  page,
				Rect:       r,
				Kind:       PatternBoxedRegion,
				Confidence: confRectangle,
			})
		}
	}
	return out
}

// underlineCandidates treats long horizontal segments as fill-in blanks.
// The implied entry region sits on top of the line.
func underlineCandidates(page int, lines []lineSegment, g GeometryThresholds) []InferredCandidate {
	var out []InferredCandidate
	for _, l := range lines {
		if !l.isHorizontal(g.LineFlatTolerance) || l.length() < g.UnderlineMinLength {
			continue
		}
		y := (l.Y0 + l.Y1) / 2
		out = append(out, InferredCandidate{
			PageIndex:  page,
			Rect:       NewBoundingBox(l.X0, y, l.X1, y+g.LabelFieldMinHeight),
			Kind:       PatternUnderline,
			Confidence: confUnderline,
		})
	}
	return out
}

// glyphCandidates finds checkbox and choice glyphs printed as text. A
// glyph beside choice vocabulary (yes/no style labels) or drawn as a
// circle becomes an exclusive-choice mark, otherwise a checkbox.
func glyphCandidates(page int, spans []textSpan) []InferredCandidate {
	var out []InferredCandidate
	for _, s := range spans {
		kind, ok := glyphKind(s.Text)
		if !ok {
			continue
		}
		side := s.FontSize
		if side < 8 {
			side = 8
		}
		out = append(out, InferredCandidate{
			PageIndex:  page,
			Rect:       NewBoundingBox(s.X, s.Y, s.X+side, s.Y+side),
			Kind:       kind,
			Confidence: confGlyph,
		})
	}
	return out
}

func glyphKind(text string) (PatternKind, bool) {
	lower := strings.ToLower(text)
	for _, g := range choiceGlyphs {
		if strings.Contains(text, g) {
			return PatternChoiceMark, true
		}
	}
	for _, g := range checkboxGlyphs {
		if !strings.Contains(text, g) {
			continue
		}
		for _, w := range choiceWords {
			if strings.Contains(lower, w) {
				return PatternChoiceMark, true
			}
		}
		return PatternCheckboxMark, true
	}
	return "", false
}

// labelCandidates turns "Label:" spans into an implied entry region to
// the right of the colon.
func labelCandidates(page int, spans []textSpan, g GeometryThresholds) []InferredCandidate {
	var out []InferredCandidate
	for _, s := range spans {
		text := strings.TrimSpace(s.Text)
		if text == "" || !strings.HasSuffix(text, ":") {
			continue
		}
		h := g.LabelFieldMinHeight
		if s.FontSize > h {
			h = s.FontSize
		}
		x0 := s.endX() + g.LabelGap
		out = append(out, InferredCandidate{
			PageIndex:  page,
			Rect:       NewBoundingBox(x0, s.Y, x0+g.LabelFieldWidth, s.Y+h),
			Kind:       PatternLabeledBlank,
			Confidence: confLabel,
		})
	}
	return out
}
