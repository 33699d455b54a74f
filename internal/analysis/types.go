package analysis

import (
	"fmt"
)

// FieldType is the public field-type taxonomy. Every field in a Report
// carries exactly one of these labels.
type FieldType string

const (
	FieldTypeText      FieldType = "Text"
	FieldTypeCheckbox  FieldType = "Checkbox"
	FieldTypeRadio     FieldType = "Radio Button"
	FieldTypeDropdown  FieldType = "Dropdown"
	FieldTypeSignature FieldType = "Signature"
	FieldTypeButton    FieldType = "Button"

	// fieldTypeUnresolved marks a widget or candidate that could not be
	// classified. It is filtered out before report assembly and never
	// appears in a FieldRecord.
	fieldTypeUnresolved FieldType = "unresolved"
)

// DetectionMethod records how a field was found.
type DetectionMethod string

const (
	// MethodWidget marks fields backed by an interactive widget annotation.
	MethodWidget DetectionMethod = "widget"
	// MethodLayout marks fields inferred from text layout (labels, glyphs).
	MethodLayout DetectionMethod = "layout"
	// MethodVisual marks fields inferred from drawing operators (boxes, lines).
	MethodVisual DetectionMethod = "visual"
)

// PatternKind identifies the visual pattern a layout candidate matched.
type PatternKind string

const (
	PatternBoxedRegion  PatternKind = "boxed_region"
	PatternCheckboxBox  PatternKind = "checkbox_box"
	PatternCheckboxMark PatternKind = "checkbox_glyph"
	PatternChoiceMark   PatternKind = "choice_glyph"
	PatternUnderline    PatternKind = "underline"
	PatternLabeledBlank PatternKind = "labeled_blank"
)

// BoundingBox is a rectangle in PDF user space (origin bottom-left).
type BoundingBox struct {
	LLx float64 `json:"x0"`
	LLy float64 `json:"y0"`
	URx float64 `json:"x1"`
	URy float64 `json:"y1"`
}

// NewBoundingBox returns a normalized box regardless of corner order.
func NewBoundingBox(x0, y0, x1, y1 float64) BoundingBox {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return BoundingBox{LLx: x0, LLy: y0, URx: x1, URy: y1}
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 { return b.URx - b.LLx }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 { return b.URy - b.LLy }

// Area returns the box area. Degenerate boxes have zero area.
func (b BoundingBox) Area() float64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Intersects reports whether two boxes overlap.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return !(b.URx < o.LLx || o.URx < b.LLx || b.URy < o.LLy || o.URy < b.LLy)
}

// IoU returns the intersection-over-union overlap ratio of two boxes.
func (b BoundingBox) IoU(o BoundingBox) float64 {
	left := max(b.LLx, o.LLx)
	bottom := max(b.LLy, o.LLy)
	right := min(b.URx, o.URx)
	top := min(b.URy, o.URy)
	if left >= right || bottom >= top {
		return 0
	}
	inter := (right - left) * (top - bottom)
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Union returns the smallest box covering both inputs.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		LLx: min(b.LLx, o.LLx),
		LLy: min(b.LLy, o.LLy),
		URx: max(b.URx, o.URx),
		URy: max(b.URy, o.URy),
	}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%.1f %.1f %.1f %.1f]", b.LLx, b.LLy, b.URx, b.URy)
}

// RawWidget is one interactive form-field widget annotation as found on a
// page. Immutable once produced by the widget scanner.
type RawWidget struct {
	TypeCode  string      `json:"type_code"` // PDF field type name: Tx, Btn, Ch, Sig
	Name      string      `json:"name"`
	PageIndex int         `json:"page_index"` // zero-based
	Rect      BoundingBox `json:"rect"`
	Flags     int         `json:"flags"` // field flags (Ff)
}

// InferredCandidate is a possible field recovered from page layout rather
// than interactive metadata.
type InferredCandidate struct {
	PageIndex  int         `json:"page_index"`
	Rect       BoundingBox `json:"rect"`
	Kind       PatternKind `json:"kind"`
	Confidence float64     `json:"confidence"`
}

// method returns the provenance label for a candidate: drawing-derived
// patterns are "visual", text-derived patterns are "layout".
func (c InferredCandidate) method() DetectionMethod {
	switch c.Kind {
	case PatternBoxedRegion, PatternCheckboxBox, PatternUnderline:
		return MethodVisual
	default:
		return MethodLayout
	}
}

// FieldRecord is the merged, classified unit the report is built from.
// Sources is never empty and Type is always one of the public labels.
type FieldRecord struct {
	Type       FieldType         `json:"type"`
	Name       string            `json:"name"`
	PageIndex  int               `json:"page_index"`
	Rect       BoundingBox       `json:"rect"`
	Sources    []DetectionMethod `json:"sources"`
	Confidence float64           `json:"confidence"`
}

// HasSource reports whether the record was found by the given method.
func (f FieldRecord) HasSource(m DetectionMethod) bool {
	for _, s := range f.Sources {
		if s == m {
			return true
		}
	}
	return false
}

// PageDimensions describes one page of the analyzed document.
type PageDimensions struct {
	PageIndex int     `json:"page_index"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Report is the complete, read-only result of one analysis run.
type Report struct {
	TotalFields  int               `json:"total_fields"`
	CountsByType map[FieldType]int `json:"counts_by_type"`
	CountsByPage map[int]int       `json:"counts_by_page"`
	Fields       []FieldRecord     `json:"fields"`
	Pages        []PageDimensions  `json:"pages"`
	Warnings     []string          `json:"warnings"`
}

// PageFields returns the records on the given page, in reading order.
func (r *Report) PageFields(pageIndex int) []FieldRecord {
	var out []FieldRecord
	for _, f := range r.Fields {
		if f.PageIndex == pageIndex {
			out = append(out, f)
		}
	}
	return out
}

// LoadReason categorizes fatal document load failures.
type LoadReason string

const (
	LoadReasonNotPDF    LoadReason = "not-a-pdf"
	LoadReasonEncrypted LoadReason = "encrypted"
	LoadReasonCorrupt   LoadReason = "corrupt"
)

// LoadError is returned when the input bytes cannot be opened as a PDF.
// It is the only fatal error the pipeline produces.
type LoadError struct {
	Reason LoadReason
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("load failed (%s)", e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }
