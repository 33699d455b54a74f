package analysis

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Field flag bits from the form-field Ff entry.
const (
	ffRequired   = 1 << 1
	ffRadio      = 1 << 15
	ffPushButton = 1 << 16
)

// maxParentDepth bounds the field hierarchy walk so that a cyclic Parent
// chain in a damaged file cannot loop.
const maxParentDepth = 10

// scanWidgets walks every page's annotation array and returns the widget
// annotations that represent form fields, in page order. Damaged
// annotations are skipped with a warning rather than failing the scan.
func scanWidgets(d *Document, warn func(string)) []RawWidget {
	var widgets []RawWidget
	for page := 0; page < d.pageCount; page++ {
		pageDict, err := d.pageDict(page)
		if err != nil || pageDict == nil {
			if err != nil {
				warnf(warn, "page %d: unreadable page dictionary", page+1)
			}
			continue
		}
		annotsObj, found := pageDict.Find("Annots")
		if !found {
			continue
		}
		annots, err := d.ctx.DereferenceArray(annotsObj)
		if err != nil {
			warnf(warn, "page %d: unreadable annotation array", page+1)
			continue
		}
		for _, obj := range annots {
			annot, err := d.ctx.DereferenceDict(obj)
			if err != nil || annot == nil {
				continue
			}
			if !isWidgetAnnotation(d, annot) {
				continue
			}
			w, ok := widgetFromAnnotation(d, annot, page)
			if !ok {
				warnf(warn, "page %d: widget annotation without usable geometry skipped", page+1)
				continue
			}
			widgets = append(widgets, w)
		}
	}
	return widgets
}

func warnf(warn func(string), format string, args ...any) {
	if warn != nil {
		warn(fmt.Sprintf(format, args...))
	}
}

func isWidgetAnnotation(d *Document, annot types.Dict) bool {
	obj, found := annot.Find("Subtype")
	if !found {
		return false
	}
	name, err := d.ctx.DereferenceName(obj, model.V10, nil)
	if err != nil {
		return false
	}
	return name == "Widget"
}

// widgetFromAnnotation builds a RawWidget from one widget annotation,
// resolving the field type, flags and qualified name through the Parent
// chain. Annotations without a valid Rect are rejected.
func widgetFromAnnotation(d *Document, annot types.Dict, page int) (RawWidget, bool) {
	rect, ok := rectFromDict(d, annot)
	if !ok {
		return RawWidget{}, false
	}

	w := RawWidget{
		PageIndex: page,
		Rect:      rect,
	}

	var names []string
	node := annot
	for depth := 0; node != nil && depth < maxParentDepth; depth++ {
		if w.TypeCode == "" {
			if obj, found := node.Find("FT"); found {
				if ft, err := d.ctx.DereferenceName(obj, model.V10, nil); err == nil {
					w.TypeCode = string(ft)
				}
			}
		}
		if w.Flags == 0 {
			if obj, found := node.Find("Ff"); found {
				if n, err := d.ctx.DereferenceInteger(obj); err == nil && n != nil {
					w.Flags = int(*n)
				}
			}
		}
		if obj, found := node.Find("T"); found {
			if t, err := d.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil); err == nil && t != "" {
				names = append(names, t)
			}
		}
		parentObj, found := node.Find("Parent")
		if !found {
			break
		}
		parent, err := d.ctx.DereferenceDict(parentObj)
		if err != nil || parent == nil {
			break
		}
		node = parent
	}

	// Names were collected leaf to root; the qualified name reads root
	// to leaf.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	w.Name = strings.Join(names, ".")

	return w, true
}

// rectFromDict reads the annotation Rect entry into a normalized box.
func rectFromDict(d *Document, dict types.Dict) (BoundingBox, bool) {
	obj, found := dict.Find("Rect")
	if !found {
		return BoundingBox{}, false
	}
	arr, err := d.ctx.DereferenceArray(obj)
	if err != nil || len(arr) != 4 {
		return BoundingBox{}, false
	}
	var vals [4]float64
	for i, o := range arr {
		f, err := d.ctx.DereferenceNumber(o)
		if err != nil {
			return BoundingBox{}, false
		}
		vals[i] = f
	}
	return NewBoundingBox(vals[0], vals[1], vals[2], vals[3]), true
}
