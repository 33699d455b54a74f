package analysis

// buildReport assembles the read-only result from merged records. Count
// maps are always non-nil and Warnings is always a non-nil slice so the
// serialized form is stable.
func buildReport(fields []FieldRecord, pages []PageDimensions, warnings []string) *Report {
	r := &Report{
		TotalFields:  len(fields),
		CountsByType: make(map[FieldType]int),
		CountsByPage: make(map[int]int),
		Fields:       fields,
		Pages:        pages,
		Warnings:     warnings,
	}
	if r.Fields == nil {
		r.Fields = []FieldRecord{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	for _, f := range r.Fields {
		r.CountsByType[f.Type]++
		r.CountsByPage[f.PageIndex]++
	}
	return r
}
