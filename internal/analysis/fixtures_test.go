package analysis

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
)

// pdfWriter assembles a minimal PDF by hand, recording object offsets so
// the cross-reference table is exact. Object numbers are assigned in call
// order starting at 1.
type pdfWriter struct {
	buf     bytes.Buffer
	offsets []int
}

func newPDFWriter() *pdfWriter {
	w := &pdfWriter{}
	w.buf.WriteString("%PDF-1.7\n")
	return w
}

// addObject writes one indirect object and returns its number.
func (w *pdfWriter) addObject(body string) int {
	num := len(w.offsets) + 1
	w.offsets = append(w.offsets, w.buf.Len())
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", num, body)
	return num
}

// finish writes the xref table and trailer and returns the document.
func (w *pdfWriter) finish(rootNum int) []byte {
	start := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", len(w.offsets)+1)
	w.buf.WriteString("0000000000 65535 f \n")
	for _, off := range w.offsets {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(w.offsets)+1, rootNum, start)
	return w.buf.Bytes()
}

// widgetSpec describes one widget annotation for buildWidgetPDF.
type widgetSpec struct {
	FT    string // Tx, Btn, Ch, Sig; empty omits the entry
	Name  string
	Rect  BoundingBox
	Flags int
}

func (s widgetSpec) dict() string {
	body := "<< /Type /Annot /Subtype /Widget"
	if s.FT != "" {
		body += " /FT /" + s.FT
	}
	if s.Name != "" {
		body += fmt.Sprintf(" /T (%s)", s.Name)
	}
	if s.Flags != 0 {
		body += fmt.Sprintf(" /Ff %d", s.Flags)
	}
	body += fmt.Sprintf(" /Rect [%g %g %g %g] >>", s.Rect.LLx, s.Rect.LLy, s.Rect.URx, s.Rect.URy)
	return body
}

// buildWidgetPDF produces a PDF with one page per inner slice and the
// given widget annotations on each page. Object layout: catalog, page
// tree, pages, then widgets.
func buildWidgetPDF(pages [][]widgetSpec) []byte {
	w := newPDFWriter()

	numPages := len(pages)
	catalogNum := 1
	pagesNum := 2
	firstPageNum := 3
	firstWidgetNum := firstPageNum + numPages

	var fieldRefs []string
	widgetNum := firstWidgetNum
	for _, specs := range pages {
		for range specs {
			fieldRefs = append(fieldRefs, fmt.Sprintf("%d 0 R", widgetNum))
			widgetNum++
		}
	}

	catalog := fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R", pagesNum)
	if len(fieldRefs) > 0 {
		catalog += " /AcroForm << /Fields ["
		for _, ref := range fieldRefs {
			catalog += ref + " "
		}
		catalog += "] >>"
	}
	catalog += " >>"
	w.addObject(catalog)

	kids := ""
	for i := 0; i < numPages; i++ {
		kids += fmt.Sprintf("%d 0 R ", firstPageNum+i)
	}
	w.addObject(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, numPages))

	widgetNum = firstWidgetNum
	for _, specs := range pages {
		annots := ""
		for range specs {
			annots += fmt.Sprintf("%d 0 R ", widgetNum)
			widgetNum++
		}
		page := fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792]", pagesNum)
		if annots != "" {
			page += fmt.Sprintf(" /Annots [%s]", annots)
		}
		page += " >>"
		w.addObject(page)
	}

	for _, specs := range pages {
		for _, s := range specs {
			w.addObject(s.dict())
		}
	}

	return w.finish(catalogNum)
}

// emptyPDF returns a single blank page with no annotations or content.
func emptyPDF() []byte {
	return buildWidgetPDF([][]widgetSpec{nil})
}

// badContentPDF returns a one-page PDF whose content stream declares a
// filter no decoder implements, so the page parses but its content
// cannot be extracted.
func badContentPDF() []byte {
	w := newPDFWriter()
	w.addObject("<< /Type /Catalog /Pages 2 0 R >>")
	w.addObject("<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	w.addObject("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R >>")
	content := "0 0 100 20 re S"
	w.addObject(fmt.Sprintf("<< /Length %d /Filter /NoSuchFilter >>\nstream\n%s\nendstream", len(content), content))
	return w.finish(1)
}

// drawnShape is one primitive for buildDrawnPDF. Boxes use the full
// rectangle; lines connect (LLx,LLy) to (URx,URy).
type drawnShape struct {
	Line bool
	Rect BoundingBox
}

// buildDrawnPDF renders rectangles and lines onto a US Letter page using
// fpdf. Coordinates are given in PDF user space (origin bottom left) and
// converted to fpdf's top-left origin here.
func buildDrawnPDF(shapes []drawnShape) ([]byte, error) {
	doc := fpdf.New("P", "pt", "", "")
	doc.SetCompression(false)
	doc.AddPageFormat("P", fpdf.SizeType{Wd: 612, Ht: 792})
	const pageH = 792.0

	for _, s := range shapes {
		if s.Line {
			doc.Line(s.Rect.LLx, pageH-s.Rect.LLy, s.Rect.URx, pageH-s.Rect.URy)
			continue
		}
		doc.Rect(s.Rect.LLx, pageH-s.Rect.URy, s.Rect.Width(), s.Rect.Height(), "D")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
