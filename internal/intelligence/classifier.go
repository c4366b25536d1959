package intelligence

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// compiledRule is a section rule with its keywords folded into one pattern
type compiledRule struct {
	label   SectionLabel
	pattern *regexp.Regexp
}

// SectionClassifier tags elements with the section they belong to.
// The label is sticky: an element that matches no rule inherits the label
// of the last element that did.
type SectionClassifier struct {
	rules []compiledRule
}

// NewSectionClassifier creates a classifier from rules listed in priority order
func NewSectionClassifier(rules []SectionRule) *SectionClassifier {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		if pattern := compileKeywords(rule.Keywords); pattern != nil {
			compiled = append(compiled, compiledRule{label: rule.Label, pattern: pattern})
		}
	}
	return &SectionClassifier{rules: compiled}
}

// NewDefaultSectionClassifier creates a classifier with the built-in keyword sets
func NewDefaultSectionClassifier() *SectionClassifier {
	return NewSectionClassifier(DefaultSectionRules())
}

// compileKeywords builds a case-insensitive pattern that only matches whole words.
// Go's \b is ASCII-only, so boundaries are spelled out with Unicode classes.
func compileKeywords(keywords []string) *regexp.Regexp {
	alternatives := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		words := strings.Fields(kw)
		if len(words) == 0 {
			continue
		}
		for i := range words {
			words[i] = regexp.QuoteMeta(words[i])
		}
		alternatives = append(alternatives, strings.Join(words, `\s+`))
	}
	if len(alternatives) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:` + strings.Join(alternatives, "|") + `)(?:[^\p{L}\p{N}_]|$)`)
}

// Match returns the highest-priority label whose keywords occur in text.
// Upper-case Turkish headings ("FIRSATLAR", "İSTİHDAM") do not fold onto their
// keywords under (?i), so a Turkish-lowered copy of the text is tried as well.
func (c *SectionClassifier) Match(text string) (SectionLabel, bool) {
	var lowered string
	for _, rule := range c.rules {
		if rule.pattern.MatchString(text) {
			return rule.label, true
		}
		if lowered == "" {
			lowered = cases.Lower(language.Turkish).String(text)
		}
		if rule.pattern.MatchString(lowered) {
			return rule.label, true
		}
	}
	return Unlabeled, false
}

// classification is the accumulator threaded through a classification pass
type classification struct {
	current SectionLabel
	emitted []Labeled
}

func (c *SectionClassifier) step(acc classification, element string) classification {
	if label, ok := c.Match(element); ok {
		acc.current = label
	}
	acc.emitted = append(acc.emitted, Labeled{Text: element, Label: acc.current})
	return acc
}

// Classify labels every element in order; nothing is dropped
func (c *SectionClassifier) Classify(elements []string) []Labeled {
	acc := classification{current: Unlabeled, emitted: make([]Labeled, 0, len(elements))}
	for _, element := range elements {
		acc = c.step(acc, element)
	}
	return acc.emitted
}

// ClassifySentences labels segmented sentences by their text
func (c *SectionClassifier) ClassifySentences(sentences []Sentence) []Labeled {
	texts := make([]string, len(sentences))
	for i, s := range sentences {
		texts[i] = s.Text
	}
	return c.Classify(texts)
}

// Relevant returns the texts of elements that carry a section label
func Relevant(labeled []Labeled) []string {
	out := make([]string, 0, len(labeled))
	for _, l := range labeled {
		if l.Label.IsLabeled() {
			out = append(out, l.Text)
		}
	}
	return out
}
