package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBoundingBox_NormalizesCorners(t *testing.T) {
	tests := []struct {
		name     string
		x0, y0   float64
		x1, y1   float64
		expected BoundingBox
	}{
		{
			name: "already_normalized",
			x0:   10, y0: 20, x1: 30, y1: 40,
			expected: BoundingBox{LLx: 10, LLy: 20, URx: 30, URy: 40},
		},
		{
			name: "swapped_x",
			x0:   30, y0: 20, x1: 10, y1: 40,
			expected: BoundingBox{LLx: 10, LLy: 20, URx: 30, URy: 40},
		},
		{
			name: "negative_height_rect",
			x0:   10, y0: 40, x1: 30, y1: 20,
			expected: BoundingBox{LLx: 10, LLy: 20, URx: 30, URy: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewBoundingBox(tt.x0, tt.y0, tt.x1, tt.y1))
		})
	}
}

func TestBoundingBox_IoU(t *testing.T) {
	tests := []struct {
		name     string
		a, b     BoundingBox
		expected float64
	}{
		{
			name:     "identical_boxes",
			a:        NewBoundingBox(0, 0, 10, 10),
			b:        NewBoundingBox(0, 0, 10, 10),
			expected: 1.0,
		},
		{
			name:     "disjoint_boxes",
			a:        NewBoundingBox(0, 0, 10, 10),
			b:        NewBoundingBox(20, 20, 30, 30),
			expected: 0,
		},
		{
			name:     "touching_edges",
			a:        NewBoundingBox(0, 0, 10, 10),
			b:        NewBoundingBox(10, 0, 20, 10),
			expected: 0,
		},
		{
			name: "half_overlap",
			// intersection 50, union 150
			a:        NewBoundingBox(0, 0, 10, 10),
			b:        NewBoundingBox(5, 0, 15, 10),
			expected: 50.0 / 150.0,
		},
		{
			name:     "contained_box",
			a:        NewBoundingBox(0, 0, 10, 10),
			b:        NewBoundingBox(2, 2, 8, 8),
			expected: 36.0 / 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.a.IoU(tt.b), 1e-9)
			assert.InDelta(t, tt.expected, tt.b.IoU(tt.a), 1e-9, "IoU should be symmetric")
		})
	}
}

func TestBoundingBox_Union(t *testing.T) {
	a := NewBoundingBox(0, 0, 10, 10)
	b := NewBoundingBox(5, -5, 20, 8)
	assert.Equal(t, NewBoundingBox(0, -5, 20, 10), a.Union(b))
}

func TestBoundingBox_Intersects(t *testing.T) {
	a := NewBoundingBox(0, 0, 10, 10)
	assert.True(t, a.Intersects(NewBoundingBox(5, 5, 15, 15)))
	assert.False(t, a.Intersects(NewBoundingBox(11, 11, 20, 20)))
}

func TestBoundingBox_Dimensions(t *testing.T) {
	b := NewBoundingBox(10, 20, 40, 60)
	assert.Equal(t, 30.0, b.Width())
	assert.Equal(t, 40.0, b.Height())
	assert.Equal(t, 1200.0, b.Area())
	assert.Equal(t, 0.0, BoundingBox{}.Area())
}

func TestFieldRecord_HasSource(t *testing.T) {
	r := FieldRecord{Sources: []DetectionMethod{MethodWidget, MethodLayout}}
	assert.True(t, r.HasSource(MethodWidget))
	assert.True(t, r.HasSource(MethodLayout))
	assert.False(t, r.HasSource(MethodVisual))
}

func TestLoadError(t *testing.T) {
	inner := errors.New("bad xref")
	err := &LoadError{Reason: LoadReasonCorrupt, Err: inner}
	assert.Contains(t, err.Error(), "corrupt")
	assert.Contains(t, err.Error(), "bad xref")
	assert.Equal(t, inner, errors.Unwrap(err))

	bare := &LoadError{Reason: LoadReasonNotPDF}
	assert.Contains(t, bare.Error(), "not-a-pdf")
}

func TestReport_PageFields(t *testing.T) {
	r := &Report{Fields: []FieldRecord{
		{Name: "a", PageIndex: 0},
		{Name: "b", PageIndex: 1},
		{Name: "c", PageIndex: 0},
	}}
	page0 := r.PageFields(0)
	assert.Len(t, page0, 2)
	assert.Equal(t, "a", page0[0].Name)
	assert.Equal(t, "c", page0[1].Name)
	assert.Empty(t, r.PageFields(5))
}
