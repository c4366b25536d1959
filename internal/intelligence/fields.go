package intelligence

import (
	"regexp"
	"strings"
	"unicode"
)

// numericToken is the strict grammar a captured token must satisfy
var numericToken = regexp.MustCompile(`^[+-]?\d+(\.\d+)?%?$`)

const tokenPunctuation = ".,;:!?()[]\"'"

// SectionFields holds the per-section accumulators in first-seen order
type SectionFields struct {
	order  []SectionLabel
	values map[SectionLabel]*FieldValue
}

// NewSectionFields creates an empty accumulator set
func NewSectionFields() *SectionFields {
	return &SectionFields{values: make(map[SectionLabel]*FieldValue)}
}

// Append adds tokens to a section, never replacing earlier values
func (sf *SectionFields) Append(label SectionLabel, tokens ...string) {
	if len(tokens) == 0 {
		return
	}
	fv, ok := sf.values[label]
	if !ok {
		fv = &FieldValue{Section: label}
		sf.values[label] = fv
		sf.order = append(sf.order, label)
	}
	fv.Values = append(fv.Values, tokens...)
}

// Get returns the accumulator of a section
func (sf *SectionFields) Get(label SectionLabel) (*FieldValue, bool) {
	fv, ok := sf.values[label]
	return fv, ok
}

// Labels returns the sections that received values, in first-seen order
func (sf *SectionFields) Labels() []SectionLabel {
	return append([]SectionLabel(nil), sf.order...)
}

// Len returns the number of sections with values
func (sf *SectionFields) Len() int {
	return len(sf.order)
}

// FieldExtractor collects numeric and percentage tokens from labeled text
type FieldExtractor struct{}

// NewFieldExtractor creates a field extractor
func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{}
}

// Extract scans every labeled element and accumulates its tokens per section.
//
// An element made only of numbers contributes all of them. An element that
// mixes words and numbers is all-or-nothing on its numbers: one malformed
// number (e.g. "1,200") discards the element, otherwise its percentages are
// kept and bare numbers, which are ambiguous in prose, are left out.
func (fe *FieldExtractor) Extract(labeled []Labeled) *SectionFields {
	fields := NewSectionFields()
	for _, element := range labeled {
		if !element.Label.IsLabeled() {
			continue
		}
		fields.Append(element.Label, ScanTokens(element.Text)...)
	}
	return fields
}

// ScanTokens returns the tokens of a single element that qualify for capture
func ScanTokens(text string) []string {
	var numbers []string
	mixed := false

	for _, field := range strings.Fields(text) {
		token := strings.Trim(field, tokenPunctuation)
		if token == "" {
			continue
		}
		if !strings.ContainsFunc(token, unicode.IsDigit) {
			mixed = true
			continue
		}
		if !numericToken.MatchString(token) {
			return nil
		}
		numbers = append(numbers, token)
	}

	if !mixed {
		return numbers
	}

	percentages := numbers[:0]
	for _, n := range numbers {
		if strings.HasSuffix(n, "%") {
			percentages = append(percentages, n)
		}
	}
	return percentages
}
