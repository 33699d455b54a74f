package analysis

// GeometryThresholds tunes the layout inference rules. All lengths are in
// PDF points.
type GeometryThresholds struct {
	// Checkbox rectangles: near-square boxes within these side bounds.
	CheckboxMinSize   float64
	CheckboxMaxSize   float64
	CheckboxMinAspect float64
	CheckboxMaxAspect float64

	// Text-entry rectangles.
	FieldMinWidth  float64
	FieldMinHeight float64
	FieldMaxHeight float64
	FieldMinAspect float64
	FieldMaxAspect float64

	// Underlines: horizontal segments used as fill-in blanks.
	UnderlineMinLength float64
	LineFlatTolerance  float64

	// Labeled blanks: the implied entry region right of a "Label:" span.
	LabelGap            float64
	LabelFieldWidth     float64
	LabelFieldMinHeight float64
}

// Options tunes one analysis run. Callers must start from DefaultOptions
// and override fields as needed: the zero Options value has layout
// inference off, which normalize cannot distinguish from a deliberate
// widgets-only run.
type Options struct {
	// EnableLayoutInference turns the drawing and text heuristics on.
	// Widget scanning always runs.
	EnableLayoutInference bool

	// IoUMergeThreshold is the overlap ratio above which two same-page
	// boxes are considered the same field.
	IoUMergeThreshold float64

	// MinConfidence drops inferred candidates scored below this value.
	MinConfidence float64

	Geometry GeometryThresholds
}

// DefaultOptions returns the standard analysis tuning.
func DefaultOptions() Options {
	return Options{
		EnableLayoutInference: true,
		IoUMergeThreshold:     0.5,
		MinConfidence:         0.4,
		Geometry: GeometryThresholds{
			CheckboxMinSize:   5,
			CheckboxMaxSize:   25,
			CheckboxMinAspect: 0.7,
			CheckboxMaxAspect: 1.3,

			FieldMinWidth:  20,
			FieldMinHeight: 8,
			FieldMaxHeight: 100,
			FieldMinAspect: 0.5,
			FieldMaxAspect: 15,

			UnderlineMinLength: 30,
			LineFlatTolerance:  2,

			LabelGap:            5,
			LabelFieldWidth:     200,
			LabelFieldMinHeight: 16,
		},
	}
}

// normalize fills unset numeric fields with defaults so that a partially
// populated Options value behaves sensibly.
func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.IoUMergeThreshold <= 0 {
		o.IoUMergeThreshold = def.IoUMergeThreshold
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = def.MinConfidence
	}
	if o.Geometry == (GeometryThresholds{}) {
		o.Geometry = def.Geometry
	}
	return o
}
