package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(s string) pageGeometry {
	return scanContent(strings.NewReader(s))
}

func TestScanContent_Rectangles(t *testing.T) {
	tests := []struct {
		name     string
		stream   string
		expected []BoundingBox
	}{
		{
			name:     "single_rect",
			stream:   "100 200 50 20 re S",
			expected: []BoundingBox{NewBoundingBox(100, 200, 150, 220)},
		},
		{
			name:   "negative_height_normalized",
			stream: "100 700 50 -20 re S",
			// fpdf draws boxes downward from the top edge.
			expected: []BoundingBox{NewBoundingBox(100, 680, 150, 700)},
		},
		{
			name:   "multiple_rects_one_path",
			stream: "0 0 10 10 re 20 20 5 5 re f",
			expected: []BoundingBox{
				NewBoundingBox(0, 0, 10, 10),
				NewBoundingBox(20, 20, 25, 25),
			},
		},
		{
			name:     "graphics_state_noise",
			stream:   "q 1 0 0 1 0 0 cm 0.5 w 1 0 0 RG 10 10 30 15 re S Q",
			expected: []BoundingBox{NewBoundingBox(10, 10, 40, 25)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := scan(tt.stream)
			assert.Equal(t, tt.expected, geo.Rects)
		})
	}
}

func TestScanContent_Lines(t *testing.T) {
	geo := scan("100 500 m 300 500 l S")
	require.Len(t, geo.Lines, 1)
	assert.Equal(t, lineSegment{X0: 100, Y0: 500, X1: 300, Y1: 500}, geo.Lines[0])
}

func TestScanContent_Polyline(t *testing.T) {
	geo := scan("0 0 m 10 0 l 10 10 l S")
	require.Len(t, geo.Lines, 2)
	assert.Equal(t, lineSegment{X0: 0, Y0: 0, X1: 10, Y1: 0}, geo.Lines[0])
	assert.Equal(t, lineSegment{X0: 10, Y0: 0, X1: 10, Y1: 10}, geo.Lines[1])
}

func TestScanContent_CurvesAdvanceCurrentPoint(t *testing.T) {
	// The curve itself produces no segment but moves the point the next
	// lineto starts from.
	geo := scan("0 0 m 1 1 2 2 30 40 c 50 40 l S")
	require.Len(t, geo.Lines, 1)
	assert.Equal(t, lineSegment{X0: 30, Y0: 40, X1: 50, Y1: 40}, geo.Lines[0])
}

func TestScanContent_SkipsNonPathConstructs(t *testing.T) {
	tests := []struct {
		name   string
		stream string
	}{
		{name: "text_showing", stream: "BT /F1 12 Tf 100 700 Td (10 10 20 20 re) Tj ET"},
		{name: "hex_string", stream: "BT <48656c6c6f> Tj ET"},
		{name: "comment", stream: "% 10 10 20 20 re\n"},
		{name: "dict_operand", stream: "/GS0 << /CA 0.5 /BM /Normal >> gs"},
		{name: "nested_dict", stream: "<< /A << /B (re) >> >> gs"},
		{name: "inline_image", stream: "BI /W 2 /H 2 /BPC 8 /CS /RGB ID \x00\x01\x02\x03 EI"},
		{name: "escaped_paren_string", stream: "((nested \\) paren 1 1 1 1 re)) Tj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := scan(tt.stream)
			assert.Empty(t, geo.Rects)
			assert.Empty(t, geo.Lines)
		})
	}
}

func TestScanContent_LinetoWithoutMovetoIgnored(t *testing.T) {
	geo := scan("10 10 l S")
	assert.Empty(t, geo.Lines)
}

func TestScanContent_EmptyStream(t *testing.T) {
	geo := scan("")
	assert.Empty(t, geo.Rects)
	assert.Empty(t, geo.Lines)
}

func TestLineSegment_Helpers(t *testing.T) {
	flat := lineSegment{X0: 0, Y0: 100, X1: 80, Y1: 101}
	assert.True(t, flat.isHorizontal(2))
	assert.InDelta(t, 80, flat.length(), 1e-9)

	steep := lineSegment{X0: 0, Y0: 0, X1: 5, Y1: 50}
	assert.False(t, steep.isHorizontal(2))
	assert.InDelta(t, 50, steep.length(), 1e-9)
}
