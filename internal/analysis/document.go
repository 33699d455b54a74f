package analysis

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document is a parsed, read-only PDF held in memory for the duration of
// one analysis run. The pdfcpu context is the primary parse; a secondary
// text-layer reader is opened lazily and is allowed to fail.
type Document struct {
	data      []byte
	ctx       *model.Context
	pageCount int

	textOnce   sync.Once
	textReader *ledongthuc.Reader
}

// headerWindow bounds how far into the file the %PDF- marker may appear.
// Some generators prepend junk bytes before the header.
const headerWindow = 1024

// LoadDocument parses pdfBytes into a Document. It returns *LoadError for
// any input that cannot be opened, categorized as not-a-pdf, encrypted
// or corrupt. Parser panics on malformed cross-reference data are
// absorbed and reported as corrupt.
func LoadDocument(pdfBytes []byte) (doc *Document, err error) {
	if !hasPDFHeader(pdfBytes) {
		return nil, &LoadError{Reason: LoadReasonNotPDF}
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &LoadError{Reason: LoadReasonCorrupt, Err: fmt.Errorf("parser fault: %v", r)}
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		return nil, classifyLoadError(err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, classifyLoadError(err)
	}

	return &Document{
		data:      pdfBytes,
		ctx:       ctx,
		pageCount: ctx.PageCount,
	}, nil
}

func hasPDFHeader(data []byte) bool {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	return bytes.Contains(window, []byte("%PDF-"))
}

func classifyLoadError(err error) *LoadError {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "encrypt") ||
		strings.Contains(msg, "decrypt") ||
		strings.Contains(msg, "password") {
		return &LoadError{Reason: LoadReasonEncrypted, Err: err}
	}
	return &LoadError{Reason: LoadReasonCorrupt, Err: err}
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int { return d.pageCount }

// Size returns the document length in bytes.
func (d *Document) Size() int64 { return int64(len(d.data)) }

// defaultPageWidth and defaultPageHeight are US Letter in points, used
// when a page carries no resolvable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// PageSize returns the MediaBox dimensions of the zero-based page, falling
// back to US Letter when the box cannot be resolved.
func (d *Document) PageSize(pageIndex int) PageDimensions {
	dims := PageDimensions{
		PageIndex: pageIndex,
		Width:     defaultPageWidth,
		Height:    defaultPageHeight,
	}
	_, _, inh, err := d.ctx.PageDict(pageIndex+1, false)
	if err != nil || inh == nil || inh.MediaBox == nil {
		return dims
	}
	if w := inh.MediaBox.Width(); w > 0 {
		dims.Width = w
	}
	if h := inh.MediaBox.Height(); h > 0 {
		dims.Height = h
	}
	return dims
}

// Pages returns dimensions for every page in order.
func (d *Document) Pages() []PageDimensions {
	out := make([]PageDimensions, 0, d.pageCount)
	for i := 0; i < d.pageCount; i++ {
		out = append(out, d.PageSize(i))
	}
	return out
}

// pageDict returns the page dictionary for the zero-based page index.
func (d *Document) pageDict(pageIndex int) (types.Dict, error) {
	dict, _, _, err := d.ctx.PageDict(pageIndex+1, false)
	return dict, err
}

// text returns the text spans of the zero-based page. The text layer is a
// best-effort secondary parse: any failure, including a parser panic,
// yields an empty slice.
func (d *Document) text(pageIndex int) []textSpan {
	d.textOnce.Do(func() {
		defer func() { recover() }() //nolint:errcheck
		r, err := ledongthuc.NewReader(bytes.NewReader(d.data), d.Size())
		if err == nil {
			d.textReader = r
		}
	})
	if d.textReader == nil {
		return nil
	}
	return pageSpans(d.textReader, pageIndex)
}

// pageSpans extracts grouped text spans from one page, absorbing parser
// panics from malformed content streams.
func pageSpans(r *ledongthuc.Reader, pageIndex int) (spans []textSpan) {
	defer func() {
		if recover() != nil {
			spans = nil
		}
	}()
	if pageIndex < 0 || pageIndex+1 > r.NumPage() {
		return nil
	}
	p := r.Page(pageIndex + 1)
	if p.V.IsNull() {
		return nil
	}
	return groupTexts(p.Content().Text)
}
