package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFields_WidgetOnly(t *testing.T) {
	widgets := []RawWidget{
		{TypeCode: "Tx", Name: "name", PageIndex: 0, Rect: NewBoundingBox(100, 700, 300, 720)},
		{TypeCode: "Btn", Name: "agree", PageIndex: 0, Rect: NewBoundingBox(100, 650, 115, 665)},
	}

	fields := mergeFields(widgets, nil, DefaultOptions(), nil)
	require.Len(t, fields, 2)

	assert.Equal(t, FieldTypeText, fields[0].Type)
	assert.Equal(t, "name", fields[0].Name)
	assert.Equal(t, []DetectionMethod{MethodWidget}, fields[0].Sources)
	assert.Equal(t, 1.0, fields[0].Confidence)

	assert.Equal(t, FieldTypeCheckbox, fields[1].Type)
}

func TestMergeFields_DedupWidgetAndLayout(t *testing.T) {
	// Same region found by the widget scanner and by a text heuristic.
	// High overlap collapses them into one record sourced from both.
	widgets := []RawWidget{
		{TypeCode: "Tx", Name: "email", PageIndex: 0, Rect: NewBoundingBox(100, 700, 300, 720)},
	}
	candidates := []InferredCandidate{
		{PageIndex: 0, Rect: NewBoundingBox(101, 700, 300, 720), Kind: PatternLabeledBlank, Confidence: confLabel},
	}
	assert.Greater(t, widgets[0].Rect.IoU(candidates[0].Rect), 0.9)

	fields := mergeFields(widgets, candidates, DefaultOptions(), nil)
	require.Len(t, fields, 1)

	f := fields[0]
	assert.Equal(t, FieldTypeText, f.Type)
	assert.Equal(t, "email", f.Name)
	assert.Equal(t, []DetectionMethod{MethodWidget, MethodLayout}, f.Sources)
	// Widget geometry is authoritative.
	assert.Equal(t, widgets[0].Rect, f.Rect)
	assert.Equal(t, 1.0, f.Confidence)
}

func TestMergeFields_WidgetTypeWins(t *testing.T) {
	// A checkbox widget overlapped by a boxed-region Text candidate keeps
	// the widget's type.
	widgets := []RawWidget{
		{TypeCode: "Btn", Name: "opt_in", PageIndex: 0, Rect: NewBoundingBox(100, 650, 115, 665)},
	}
	candidates := []InferredCandidate{
		{PageIndex: 0, Rect: NewBoundingBox(100, 650, 115, 665), Kind: PatternCheckboxBox, Confidence: confRectangle},
	}

	fields := mergeFields(widgets, candidates, DefaultOptions(), nil)
	require.Len(t, fields, 1)
	assert.Equal(t, FieldTypeCheckbox, fields[0].Type)
	assert.Equal(t, []DetectionMethod{MethodWidget, MethodVisual}, fields[0].Sources)
}

func TestMergeFields_InferredPairUnionsBoxes(t *testing.T) {
	candidates := []InferredCandidate{
		{PageIndex: 0, Rect: NewBoundingBox(100, 700, 300, 720), Kind: PatternBoxedRegion, Confidence: confRectangle},
		{PageIndex: 0, Rect: NewBoundingBox(105, 700, 310, 720), Kind: PatternLabeledBlank, Confidence: confLabel},
	}

	fields := mergeFields(nil, candidates, DefaultOptions(), nil)
	require.Len(t, fields, 1)
	assert.Equal(t, NewBoundingBox(100, 700, 310, 720), fields[0].Rect)
	assert.Equal(t, confRectangle, fields[0].Confidence)
	assert.ElementsMatch(t, []DetectionMethod{MethodVisual, MethodLayout}, fields[0].Sources)
}

func TestMergeFields_SamePageOnly(t *testing.T) {
	// Identical geometry on different pages never merges.
	widgets := []RawWidget{
		{TypeCode: "Tx", Name: "a", PageIndex: 0, Rect: NewBoundingBox(100, 700, 300, 720)},
		{TypeCode: "Tx", Name: "b", PageIndex: 1, Rect: NewBoundingBox(100, 700, 300, 720)},
	}
	fields := mergeFields(widgets, nil, DefaultOptions(), nil)
	assert.Len(t, fields, 2)
}

func TestMergeFields_BelowThresholdKeptSeparate(t *testing.T) {
	// Side-by-side checkboxes overlap slightly but stay distinct.
	candidates := []InferredCandidate{
		{PageIndex: 0, Rect: NewBoundingBox(100, 650, 112, 662), Kind: PatternCheckboxBox, Confidence: confRectangle},
		{PageIndex: 0, Rect: NewBoundingBox(110, 650, 122, 662), Kind: PatternCheckboxBox, Confidence: confRectangle},
	}
	fields := mergeFields(nil, candidates, DefaultOptions(), nil)
	assert.Len(t, fields, 2)
}

func TestMergeFields_OrderIndependent(t *testing.T) {
	widgets := []RawWidget{
		{TypeCode: "Tx", Name: "name", PageIndex: 0, Rect: NewBoundingBox(100, 700, 300, 720)},
		{TypeCode: "Btn", Name: "agree", PageIndex: 0, Rect: NewBoundingBox(100, 650, 115, 665), Flags: ffRadio},
	}
	candidates := []InferredCandidate{
		{PageIndex: 0, Rect: NewBoundingBox(100, 700, 305, 720), Kind: PatternLabeledBlank, Confidence: confLabel},
		{PageIndex: 0, Rect: NewBoundingBox(400, 500, 600, 520), Kind: PatternUnderline, Confidence: confUnderline},
	}

	forward := mergeFields(widgets, candidates, DefaultOptions(), nil)

	reversedW := []RawWidget{widgets[1], widgets[0]}
	reversedC := []InferredCandidate{candidates[1], candidates[0]}
	backward := mergeFields(reversedW, reversedC, DefaultOptions(), nil)

	assert.Equal(t, forward, backward)
}

func TestMergeRecords_Idempotent(t *testing.T) {
	widgets := []RawWidget{
		{TypeCode: "Tx", Name: "name", PageIndex: 0, Rect: NewBoundingBox(100, 700, 300, 720)},
	}
	candidates := []InferredCandidate{
		{PageIndex: 0, Rect: NewBoundingBox(100, 700, 305, 720), Kind: PatternLabeledBlank, Confidence: confLabel},
		{PageIndex: 0, Rect: NewBoundingBox(400, 500, 600, 520), Kind: PatternUnderline, Confidence: confUnderline},
	}

	once := mergeFields(widgets, candidates, DefaultOptions(), nil)
	twice := mergeRecords(once, DefaultOptions())
	assert.Equal(t, once, twice)
}

func TestMergeFields_ReadingOrder(t *testing.T) {
	widgets := []RawWidget{
		{TypeCode: "Tx", Name: "bottom", PageIndex: 0, Rect: NewBoundingBox(100, 100, 300, 120)},
		{TypeCode: "Tx", Name: "top_right", PageIndex: 0, Rect: NewBoundingBox(350, 700, 500, 720)},
		{TypeCode: "Tx", Name: "top_left", PageIndex: 0, Rect: NewBoundingBox(100, 700, 300, 720)},
		{TypeCode: "Tx", Name: "page_two", PageIndex: 1, Rect: NewBoundingBox(100, 750, 300, 770)},
	}

	fields := mergeFields(widgets, nil, DefaultOptions(), nil)
	require.Len(t, fields, 4)

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"top_left", "top_right", "bottom", "page_two"}, names)
}

func TestMergeFields_ReadingOrderKeysOnLowerLeft(t *testing.T) {
	// The tall box reaches higher but starts lower; the short box wins.
	widgets := []RawWidget{
		{TypeCode: "Tx", Name: "tall", PageIndex: 0, Rect: NewBoundingBox(100, 500, 300, 720)},
		{TypeCode: "Tx", Name: "short", PageIndex: 0, Rect: NewBoundingBox(100, 600, 300, 640)},
	}

	fields := mergeFields(widgets, nil, DefaultOptions(), nil)
	require.Len(t, fields, 2)
	assert.Equal(t, "short", fields[0].Name)
	assert.Equal(t, "tall", fields[1].Name)
}

func TestMergeFields_SynthesizesNames(t *testing.T) {
	candidates := []InferredCandidate{
		{PageIndex: 0, Rect: NewBoundingBox(100, 700, 300, 720), Kind: PatternBoxedRegion, Confidence: confRectangle},
		{PageIndex: 0, Rect: NewBoundingBox(100, 600, 300, 620), Kind: PatternUnderline, Confidence: confUnderline},
		{PageIndex: 2, Rect: NewBoundingBox(100, 700, 300, 720), Kind: PatternBoxedRegion, Confidence: confRectangle},
	}

	fields := mergeFields(nil, candidates, DefaultOptions(), nil)
	require.Len(t, fields, 3)
	assert.Equal(t, "field_1_1", fields[0].Name)
	assert.Equal(t, "field_1_2", fields[1].Name)
	assert.Equal(t, "field_3_1", fields[2].Name)
}

func TestMergeFields_UnresolvedWidgetDropped(t *testing.T) {
	widgets := []RawWidget{
		{TypeCode: "", Name: "ghost", PageIndex: 0, Rect: NewBoundingBox(100, 700, 300, 720)},
		{TypeCode: "Tx", Name: "real", PageIndex: 0, Rect: NewBoundingBox(100, 600, 300, 620)},
	}

	var warnings []string
	fields := mergeFields(widgets, nil, DefaultOptions(), func(msg string) { warnings = append(warnings, msg) })

	require.Len(t, fields, 1)
	assert.Equal(t, "real", fields[0].Name)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "ghost")
}

func TestMergeFields_Empty(t *testing.T) {
	assert.Empty(t, mergeFields(nil, nil, DefaultOptions(), nil))
}
