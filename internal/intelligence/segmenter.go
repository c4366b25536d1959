package intelligence

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// abbreviationMask stands in for a period that belongs to an abbreviation.
// It is a private-use rune so it can never act as a terminator.
const abbreviationMask = "\uE000"

// DefaultAbbreviations are the tokens whose periods never end a sentence
var DefaultAbbreviations = []string{
	"Dr.", "Prof.", "Mr.", "Mrs.", "Ms.", "vs.", "etc.", "e.g.", "i.e.",
	"Inc.", "Ltd.", "Co.", "No.", "Fig.", "St.", "Jr.", "Sr.", "approx.",
	"Doç.", "Yrd.", "vb.", "bkz.", "Şti.",
}

var boundaryPattern = regexp.MustCompile(`[.!?]+\s+`)

// Segmenter splits text into sentences without breaking on abbreviation periods
type Segmenter struct {
	abbreviations []string
	maskPattern   *regexp.Regexp
}

// NewSegmenter creates a segmenter for the given abbreviations, or the defaults when none are passed
func NewSegmenter(abbreviations ...string) *Segmenter {
	if len(abbreviations) == 0 {
		abbreviations = DefaultAbbreviations
	}

	// Longest first so "Mrs." wins over "Mr." style prefixes.
	sorted := append([]string(nil), abbreviations...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, 0, len(sorted))
	for _, abbr := range sorted {
		if strings.TrimSpace(abbr) == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(abbr))
	}

	s := &Segmenter{abbreviations: sorted}
	if len(quoted) > 0 {
		s.maskPattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(` + strings.Join(quoted, "|") + `)`)
	}
	return s
}

// Abbreviations returns the configured abbreviation list
func (s *Segmenter) Abbreviations() []string {
	return append([]string(nil), s.abbreviations...)
}

// Segment splits text into sentences in source order. Join rebuilds the
// input from the result, except for blank input, which yields no sentences.
func (s *Segmenter) Segment(text string) []Sentence {
	if strings.TrimSpace(text) == "" {
		return []Sentence{}
	}

	masked := s.mask(text)

	trimmed := strings.TrimLeftFunc(masked, unicode.IsSpace)
	leading := masked[:len(masked)-len(trimmed)]

	var sentences []Sentence
	start := 0
	for _, loc := range boundaryPattern.FindAllStringIndex(trimmed, -1) {
		body := trimmed[start:loc[1]]
		span := strings.TrimRightFunc(body, unicode.IsSpace)
		sentences = append(sentences, Sentence{
			Text:     unmask(span),
			Trailing: body[len(span):],
		})
		start = loc[1]
	}
	if start < len(trimmed) {
		sentences = append(sentences, Sentence{Text: unmask(trimmed[start:])})
	}

	for i := range sentences {
		sentences[i].Index = i + 1
	}
	sentences[0].Leading = leading

	return sentences
}

// SentencesOf returns the sentence texts of text
func (s *Segmenter) SentencesOf(text string) []string {
	segmented := s.Segment(text)
	out := make([]string, len(segmented))
	for i, sentence := range segmented {
		out[i] = sentence.Text
	}
	return out
}

// WordsOf returns the lower-cased words of a sentence, dropping punctuation
func (s *Segmenter) WordsOf(sentence string) []string {
	fields := strings.FieldsFunc(sentence, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '%'
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, strings.ToLower(f))
	}
	return words
}

// mask replaces the periods inside abbreviations with abbreviationMask
func (s *Segmenter) mask(text string) string {
	if s.maskPattern == nil {
		return text
	}

	matches := s.maskPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(matches)*2)
	last := 0
	for _, m := range matches {
		abbrStart, abbrEnd := m[2], m[3]
		b.WriteString(text[last:abbrStart])
		b.WriteString(strings.ReplaceAll(text[abbrStart:abbrEnd], ".", abbreviationMask))
		last = abbrEnd
	}
	b.WriteString(text[last:])
	return b.String()
}

func unmask(text string) string {
	return strings.ReplaceAll(text, abbreviationMask, ".")
}

// Join rebuilds the source text of a segmentation
func Join(sentences []Sentence) string {
	var b strings.Builder
	for _, s := range sentences {
		b.WriteString(s.Leading)
		b.WriteString(s.Text)
		b.WriteString(s.Trailing)
	}
	return b.String()
}
