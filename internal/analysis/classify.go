package analysis

import "fmt"

// classifyWidget maps a widget's PDF field type code and flag bits onto
// the public taxonomy. Button widgets split three ways on the Ff radio
// and pushbutton bits.
func classifyWidget(typeCode string, flags int) FieldType {
	switch typeCode {
	case "Tx":
		return FieldTypeText
	case "Btn":
		if flags&ffRadio != 0 {
			return FieldTypeRadio
		}
		if flags&ffPushButton != 0 {
			return FieldTypeButton
		}
		return FieldTypeCheckbox
	case "Ch":
		return FieldTypeDropdown
	case "Sig":
		return FieldTypeSignature
	default:
		return fieldTypeUnresolved
	}
}

// classifyPattern maps a layout pattern onto the public taxonomy. The
// mapping is closed: every pattern kind resolves to a public label.
func classifyPattern(kind PatternKind) FieldType {
	switch kind {
	case PatternBoxedRegion, PatternUnderline, PatternLabeledBlank:
		return FieldTypeText
	case PatternCheckboxBox, PatternCheckboxMark:
		return FieldTypeCheckbox
	case PatternChoiceMark:
		return FieldTypeRadio
	default:
		return fieldTypeUnresolved
	}
}

// knownPatternKinds lists every pattern the inferencer can emit.
var knownPatternKinds = []PatternKind{
	PatternBoxedRegion,
	PatternCheckboxBox,
	PatternCheckboxMark,
	PatternChoiceMark,
	PatternUnderline,
	PatternLabeledBlank,
}

func init() {
	// Every producible pattern kind must resolve to a public label, so a
	// newly added pattern cannot silently leak unresolved records.
	for _, k := range knownPatternKinds {
		if classifyPattern(k) == fieldTypeUnresolved {
			panic(fmt.Sprintf("pattern kind %q has no field type mapping", k))
		}
	}
}
