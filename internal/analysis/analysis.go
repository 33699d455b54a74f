// Package analysis extracts form fields from PDF documents. It combines
// three evidence sources: interactive widget annotations, drawn geometry
// (boxes and underlines) and positioned text (labels and glyphs), then
// merges overlapping detections into a single report.
package analysis

// Analyze inspects pdfBytes and reports every detected form field. Fatal
// load failures return a *LoadError; all per-page problems are demoted
// to report warnings so a damaged page never hides the rest of the
// document. Each call is independent and safe for concurrent use.
// Build opts from DefaultOptions; see Options.
func Analyze(pdfBytes []byte, opts Options) (*Report, error) {
	opts = opts.normalize()

	doc, err := LoadDocument(pdfBytes)
	if err != nil {
		return nil, err
	}

	warnings := []string{}
	warn := func(msg string) { warnings = append(warnings, msg) }

	widgets := scanWidgets(doc, warn)

	var candidates []InferredCandidate
	if opts.EnableLayoutInference {
		candidates = inferFields(doc, opts, warn)
	}

	fields := mergeFields(widgets, candidates, opts, warn)

	return buildReport(fields, doc.Pages(), warnings), nil
}
