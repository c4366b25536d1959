package intelligence

import (
	"fmt"
	"strings"
)

// SectionLabel is the closed set of section tags assigned by keyword matching
type SectionLabel int

const (
	Unlabeled SectionLabel = iota
	SWOT
	Employee
	Financial
	TechnologyAI
)

// SectionLabels lists the assignable labels in their default priority order
var SectionLabels = []SectionLabel{SWOT, Employee, Financial, TechnologyAI}

// String returns the label name used as a report field key
func (l SectionLabel) String() string {
	switch l {
	case SWOT:
		return "SWOT"
	case Employee:
		return "Employee"
	case Financial:
		return "Financial"
	case TechnologyAI:
		return "TechnologyAI"
	default:
		return "Unlabeled"
	}
}

// IsLabeled reports whether l is one of the assignable labels
func (l SectionLabel) IsLabeled() bool {
	return l > Unlabeled && l <= TechnologyAI
}

// ParseSectionLabel resolves a label name, case-insensitively
func ParseSectionLabel(name string) (SectionLabel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "swot":
		return SWOT, nil
	case "employee":
		return Employee, nil
	case "financial":
		return Financial, nil
	case "technologyai", "technology_ai", "technology":
		return TechnologyAI, nil
	case "unlabeled", "":
		return Unlabeled, nil
	default:
		return Unlabeled, fmt.Errorf("unknown section label: %q", name)
	}
}

// Sentence is a contiguous span of text bounded by sentence-final punctuation.
// Leading holds whitespace that preceded the first sentence of the input and
// Trailing the whitespace that followed this sentence, so the source can be
// rebuilt exactly with Join.
type Sentence struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Leading  string `json:"-"`
	Trailing string `json:"-"`
}

// Labeled pairs a classified element with the label active when it was read
type Labeled struct {
	Text  string       `json:"text"`
	Label SectionLabel `json:"label"`
}

// FieldValue accumulates numeric and percentage tokens found under one section
type FieldValue struct {
	Section SectionLabel `json:"section"`
	Values  []string     `json:"values"`
}

// String renders the accumulated values comma-separated
func (f *FieldValue) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(f.Values, ", ")
}
