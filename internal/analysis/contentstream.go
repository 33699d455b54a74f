package analysis

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// pageGeometry holds the drawing primitives recovered from one page's
// content streams.
type pageGeometry struct {
	Rects []BoundingBox
	Lines []lineSegment
}

// lineSegment is a straight path segment from a moveto/lineto pair.
type lineSegment struct {
	X0, Y0, X1, Y1 float64
}

func (l lineSegment) length() float64 {
	dx, dy := l.X1-l.X0, l.Y1-l.Y0
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// isHorizontal reports whether the segment is flat within tol points.
func (l lineSegment) isHorizontal(tol float64) bool {
	dy := l.Y1 - l.Y0
	if dy < 0 {
		dy = -dy
	}
	return dy < tol
}

// geometry extracts rectangles and line segments from the zero-based
// page's content stream. An unreadable stream yields an empty result and
// an error; a page with no content at all is empty without error.
func (d *Document) geometry(pageIndex int) (pageGeometry, error) {
	r, err := pdfcpu.ExtractPageContent(d.ctx, pageIndex+1)
	if err != nil {
		return pageGeometry{}, err
	}
	if r == nil {
		return pageGeometry{}, nil
	}
	return scanContent(r), nil
}

// scanContent runs a minimal operand-stack interpreter over a content
// stream, recording re rectangles and m/l path segments. Curves advance
// the current point without producing segments. Text showing, color and
// state operators are ignored.
func scanContent(r io.Reader) pageGeometry {
	var geo pageGeometry
	var stack []float64
	var curX, curY float64
	var havePoint bool

	tok := newContentTokenizer(r)
	for {
		t, ok := tok.next()
		if !ok {
			break
		}
		if v, err := strconv.ParseFloat(t, 64); err == nil {
			stack = append(stack, v)
			continue
		}
		switch t {
		case "re":
			if len(stack) >= 4 {
				n := len(stack)
				x, y, w, h := stack[n-4], stack[n-3], stack[n-2], stack[n-1]
				geo.Rects = append(geo.Rects, NewBoundingBox(x, y, x+w, y+h))
			}
		case "m":
			if len(stack) >= 2 {
				n := len(stack)
				curX, curY = stack[n-2], stack[n-1]
				havePoint = true
			}
		case "l":
			if len(stack) >= 2 && havePoint {
				n := len(stack)
				x, y := stack[n-2], stack[n-1]
				geo.Lines = append(geo.Lines, lineSegment{X0: curX, Y0: curY, X1: x, Y1: y})
				curX, curY = x, y
			}
		case "c":
			if len(stack) >= 6 {
				n := len(stack)
				curX, curY = stack[n-2], stack[n-1]
			}
		case "v", "y":
			if len(stack) >= 4 {
				n := len(stack)
				curX, curY = stack[n-2], stack[n-1]
			}
		case "BI":
			tok.skipInlineImage()
		}
		stack = stack[:0]
	}
	return geo
}

// contentTokenizer splits a content stream into numbers and operator
// keywords, skipping strings, hex strings, names, dictionaries, arrays
// and comments. It only needs to be faithful enough for path operators.
type contentTokenizer struct {
	r *bufio.Reader
}

func newContentTokenizer(r io.Reader) *contentTokenizer {
	return &contentTokenizer{r: bufio.NewReader(r)}
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func (t *contentTokenizer) next() (string, bool) {
	for {
		b, err := t.r.ReadByte()
		if err != nil {
			return "", false
		}
		switch {
		case isSpace(b):
			continue
		case b == '%':
			t.skipToEOL()
		case b == '(':
			t.skipString()
		case b == '<':
			if nb, err := t.r.ReadByte(); err == nil && nb == '<' {
				t.skipDict()
			} else {
				if err == nil {
					_ = t.r.UnreadByte()
				}
				t.skipHexString()
			}
		case b == '/':
			t.skipRegular()
		case b == '[' || b == ']' || b == '{' || b == '}' || b == ')' || b == '>':
			continue
		default:
			return t.readToken(b), true
		}
	}
}

func (t *contentTokenizer) readToken(first byte) string {
	buf := []byte{first}
	for {
		b, err := t.r.ReadByte()
		if err != nil {
			break
		}
		if isSpace(b) || isDelim(b) {
			_ = t.r.UnreadByte()
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}

// skipRegular consumes a run of regular characters, used to discard
// name objects.
func (t *contentTokenizer) skipRegular() {
	for {
		b, err := t.r.ReadByte()
		if err != nil {
			return
		}
		if isSpace(b) || isDelim(b) {
			_ = t.r.UnreadByte()
			return
		}
	}
}

func (t *contentTokenizer) skipToEOL() {
	for {
		b, err := t.r.ReadByte()
		if err != nil || b == '\n' || b == '\r' {
			return
		}
	}
}

func (t *contentTokenizer) skipString() {
	depth := 1
	for depth > 0 {
		b, err := t.r.ReadByte()
		if err != nil {
			return
		}
		switch b {
		case '\\':
			if _, err := t.r.ReadByte(); err != nil {
				return
			}
		case '(':
			depth++
		case ')':
			depth--
		}
	}
}

func (t *contentTokenizer) skipHexString() {
	for {
		b, err := t.r.ReadByte()
		if err != nil || b == '>' {
			return
		}
	}
}

func (t *contentTokenizer) skipDict() {
	depth := 1
	for depth > 0 {
		b, err := t.r.ReadByte()
		if err != nil {
			return
		}
		switch b {
		case '<':
			if nb, err := t.r.ReadByte(); err == nil && nb == '<' {
				depth++
			} else if err == nil {
				_ = t.r.UnreadByte()
			}
		case '>':
			if nb, err := t.r.ReadByte(); err == nil && nb == '>' {
				depth--
			} else if err == nil {
				_ = t.r.UnreadByte()
			}
		case '(':
			t.skipString()
		case '%':
			t.skipToEOL()
		}
	}
}

// skipInlineImage consumes bytes through the EI terminator of a BI..EI
// inline image block.
func (t *contentTokenizer) skipInlineImage() {
	var prev byte
	for {
		b, err := t.r.ReadByte()
		if err != nil {
			return
		}
		if prev == 'E' && b == 'I' {
			if nb, err := t.r.ReadByte(); err != nil || isSpace(nb) {
				return
			}
			_ = t.r.UnreadByte()
		}
		prev = b
	}
}
