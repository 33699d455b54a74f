// Package overlay renders analysis results as standalone PDF pages. Each
// detected field is drawn as a colored box with a name/type caption on a
// blank canvas matching the source page size, giving a quick visual check
// of what the analyzer found.
package overlay

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"github.com/fieldlens/fieldlens/internal/analysis"
)

// PageSize is the canvas size in points.
type PageSize struct {
	Width  float64
	Height float64
}

// letter is the fallback canvas when the report carries no page info.
var letter = PageSize{Width: 612, Height: 792}

// typeColor holds the stroke color used per field type.
type typeColor struct{ r, g, b int }

var typeColors = map[analysis.FieldType]typeColor{
	analysis.FieldTypeText:      {r: 0, g: 102, b: 204},
	analysis.FieldTypeCheckbox:  {r: 0, g: 153, b: 51},
	analysis.FieldTypeRadio:     {r: 204, g: 102, b: 0},
	analysis.FieldTypeDropdown:  {r: 102, g: 0, b: 153},
	analysis.FieldTypeSignature: {r: 204, g: 0, b: 0},
	analysis.FieldTypeButton:    {r: 96, g: 96, b: 96},
}

// defaultColor covers any type missing from the palette.
var defaultColor = typeColor{r: 128, g: 128, b: 128}

// SizeFor returns the canvas size for the given page, falling back to US
// Letter when the report has no dimensions for it.
func SizeFor(report *analysis.Report, pageIndex int) PageSize {
	for _, p := range report.Pages {
		if p.PageIndex == pageIndex && p.Width > 0 && p.Height > 0 {
			return PageSize{Width: p.Width, Height: p.Height}
		}
	}
	return letter
}

// RenderPage draws the given page's fields onto a blank canvas of the
// given size and returns the resulting single-page PDF. A zero size falls
// back to the report's page dimensions.
func RenderPage(report *analysis.Report, pageIndex int, size PageSize) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("report cannot be nil")
	}
	if pageIndex < 0 {
		return nil, fmt.Errorf("page index cannot be negative: %d", pageIndex)
	}
	if size.Width <= 0 || size.Height <= 0 {
		size = SizeFor(report, pageIndex)
	}

	doc := fpdf.New("P", "pt", "", "")
	doc.AddPageFormat("P", fpdf.SizeType{Wd: size.Width, Ht: size.Height})
	doc.SetFont("Helvetica", "", 8)
	doc.SetLineWidth(1)

	for _, f := range report.PageFields(pageIndex) {
		c, ok := typeColors[f.Type]
		if !ok {
			c = defaultColor
		}
		doc.SetDrawColor(c.r, c.g, c.b)
		doc.SetTextColor(c.r, c.g, c.b)

		// Analysis boxes are bottom-left origin; fpdf draws from top-left.
		x := f.Rect.LLx
		y := size.Height - f.Rect.URy
		doc.Rect(x, y, f.Rect.Width(), f.Rect.Height(), "D")
		doc.Text(x, y-2, fmt.Sprintf("%s (%s)", f.Name, f.Type))
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render overlay: %w", err)
	}
	return buf.Bytes(), nil
}
