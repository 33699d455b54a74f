package analysis

import (
	"fmt"
	"sort"
)

// mergeFields classifies widgets and candidates, deduplicates overlapping
// boxes and returns the final field records in reading order. Widgets
// score 1.0 and are authoritative over inferred candidates. Unresolved
// widget types are dropped with a warning.
func mergeFields(widgets []RawWidget, candidates []InferredCandidate, opts Options, warn func(string)) []FieldRecord {
	records := make([]FieldRecord, 0, len(widgets)+len(candidates))

	for _, w := range widgets {
		ft := classifyWidget(w.TypeCode, w.Flags)
		if ft == fieldTypeUnresolved {
			warnf(warn, "page %d: field %q has unrecognized type code %q, skipped",
				w.PageIndex+1, w.Name, w.TypeCode)
			continue
		}
		records = append(records, FieldRecord{
			Type:       ft,
			Name:       w.Name,
			PageIndex:  w.PageIndex,
			Rect:       w.Rect,
			Sources:    []DetectionMethod{MethodWidget},
			Confidence: 1.0,
		})
	}
	for _, c := range candidates {
		ft := classifyPattern(c.Kind)
		if ft == fieldTypeUnresolved {
			warnf(warn, "page %d: candidate at %s has unknown pattern %q, skipped",
				c.PageIndex+1, c.Rect, c.Kind)
			continue
		}
		records = append(records, FieldRecord{
			Type:       ft,
			PageIndex:  c.PageIndex,
			Rect:       c.Rect,
			Sources:    []DetectionMethod{c.method()},
			Confidence: c.Confidence,
		})
	}

	return mergeRecords(records, opts)
}

// mergeRecords deduplicates records whose same-page boxes overlap above
// the IoU threshold, then orders and names the result. The operation is
// order independent (inputs are canonically sorted first) and idempotent
// (its output contains no pair above the threshold).
func mergeRecords(records []FieldRecord, opts Options) []FieldRecord {
	sortCanonical(records)

	var merged []FieldRecord
	for _, r := range records {
		idx := -1
		for i := range merged {
			if merged[i].PageIndex != r.PageIndex {
				continue
			}
			if merged[i].Rect.IoU(r.Rect) > opts.IoUMergeThreshold {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged = append(merged, cloneRecord(r))
			continue
		}
		merged[idx] = absorb(merged[idx], r)
	}

	sortReadingOrder(merged)
	synthesizeNames(merged)
	return merged
}

// absorb folds r into the target record. The canonical sort guarantees
// widget-backed records arrive first, so the target's identity wins when
// it is widget backed. Two inferred records union their boxes.
func absorb(target, r FieldRecord) FieldRecord {
	targetWidget := target.HasSource(MethodWidget)
	if !targetWidget && !r.HasSource(MethodWidget) {
		target.Rect = target.Rect.Union(r.Rect)
	}
	if target.Name == "" {
		target.Name = r.Name
	}
	if r.Confidence > target.Confidence {
		target.Confidence = r.Confidence
	}
	for _, s := range r.Sources {
		if !target.HasSource(s) {
			target.Sources = append(target.Sources, s)
		}
	}
	sortSources(target.Sources)
	return target
}

func cloneRecord(r FieldRecord) FieldRecord {
	r.Sources = append([]DetectionMethod(nil), r.Sources...)
	return r
}

// sourceRank orders detection methods by authority.
func sourceRank(m DetectionMethod) int {
	switch m {
	case MethodWidget:
		return 0
	case MethodVisual:
		return 1
	default:
		return 2
	}
}

func sortSources(sources []DetectionMethod) {
	sort.Slice(sources, func(i, j int) bool {
		return sourceRank(sources[i]) < sourceRank(sources[j])
	})
}

// sortCanonical imposes a deterministic total order so that merging is
// independent of input order: widgets before inferred records, higher
// confidence first, then geometry and name as tiebreakers.
func sortCanonical(records []FieldRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.PageIndex != b.PageIndex {
			return a.PageIndex < b.PageIndex
		}
		aw, bw := a.HasSource(MethodWidget), b.HasSource(MethodWidget)
		if aw != bw {
			return aw
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Rect.URy != b.Rect.URy {
			return a.Rect.URy > b.Rect.URy
		}
		if a.Rect.LLx != b.Rect.LLx {
			return a.Rect.LLx < b.Rect.LLx
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Type < b.Type
	})
}

// sortReadingOrder orders records top-to-bottom, left-to-right per page,
// keyed on the lower-left corner.
func sortReadingOrder(records []FieldRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.PageIndex != b.PageIndex {
			return a.PageIndex < b.PageIndex
		}
		if a.Rect.LLy != b.Rect.LLy {
			return a.Rect.LLy > b.Rect.LLy
		}
		return a.Rect.LLx < b.Rect.LLx
	})
}

// synthesizeNames assigns positional names to unnamed records. Numbering
// restarts per page and follows reading order, so the names are stable
// across runs.
func synthesizeNames(records []FieldRecord) {
	counts := map[int]int{}
	for i := range records {
		counts[records[i].PageIndex]++
		if records[i].Name == "" {
			records[i].Name = fmt.Sprintf("field_%d_%d", records[i].PageIndex+1, counts[records[i].PageIndex])
		}
	}
}
