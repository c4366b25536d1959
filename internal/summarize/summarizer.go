// Package summarize provides the extractive summarization collaborator used
// by the report builder.
package summarize

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// DefaultSentenceCount is the number of sentences a summary keeps by default
const DefaultSentenceCount = 5

// ErrNoSentences is returned when there is nothing to summarize
var ErrNoSentences = errors.New("no sentences to summarize")

// TextSplitter is the capability a summarizer needs from the text pipeline
type TextSplitter interface {
	SentencesOf(text string) []string
	WordsOf(sentence string) []string
}

// Summarizer picks a salience-ranked subset of sentences
type Summarizer interface {
	Summarize(ctx context.Context, sentences []string, targetCount int) ([]string, error)
}

// stopWords are ignored when scoring; English and Turkish function words
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "this": true, "to": true, "was": true,
	"were": true, "will": true, "with": true,
	"ve": true, "bir": true, "bu": true, "da": true, "de": true, "için": true,
	"ile": true, "olarak": true, "çok": true, "daha": true, "gibi": true,
}

// FrequencySummarizer scores sentences by the normalised frequency of their
// content words and keeps the best ones in document order
type FrequencySummarizer struct {
	splitter TextSplitter
}

// NewFrequencySummarizer creates a summarizer over the given splitter
func NewFrequencySummarizer(splitter TextSplitter) *FrequencySummarizer {
	return &FrequencySummarizer{splitter: splitter}
}

// Summarize returns at most targetCount sentences. Input sentences may hold
// several sentences each; they are re-split with the splitter first.
func (s *FrequencySummarizer) Summarize(ctx context.Context, sentences []string, targetCount int) ([]string, error) {
	if targetCount <= 0 {
		targetCount = DefaultSentenceCount
	}

	var units []string
	for _, chunk := range sentences {
		for _, sentence := range s.splitter.SentencesOf(chunk) {
			if strings.TrimSpace(sentence) != "" {
				units = append(units, sentence)
			}
		}
	}
	if len(units) == 0 {
		return nil, ErrNoSentences
	}
	if len(units) <= targetCount {
		return units, nil
	}

	words := make([][]string, len(units))
	frequency := make(map[string]int)
	maxFrequency := 0
	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		words[i] = contentWords(s.splitter.WordsOf(unit))
		for _, w := range words[i] {
			frequency[w]++
			if frequency[w] > maxFrequency {
				maxFrequency = frequency[w]
			}
		}
	}

	type scored struct {
		index int
		score float64
	}
	ranking := make([]scored, len(units))
	for i := range units {
		total := 0.0
		for _, w := range words[i] {
			total += float64(frequency[w]) / float64(maxFrequency)
		}
		if len(words[i]) > 0 {
			total /= float64(len(words[i]))
		}
		ranking[i] = scored{index: i, score: total}
	}

	sort.SliceStable(ranking, func(a, b int) bool {
		return ranking[a].score > ranking[b].score
	})

	chosen := ranking[:targetCount]
	sort.Slice(chosen, func(a, b int) bool { return chosen[a].index < chosen[b].index })

	out := make([]string, len(chosen))
	for i, c := range chosen {
		out[i] = units[c.index]
	}
	return out, nil
}

func contentWords(words []string) []string {
	out := words[:0:0]
	for _, w := range words {
		if len([]rune(w)) < 2 || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Func adapts a plain function to the Summarizer interface
type Func func(ctx context.Context, sentences []string, targetCount int) ([]string, error)

// Summarize calls f
func (f Func) Summarize(ctx context.Context, sentences []string, targetCount int) ([]string, error) {
	return f(ctx, sentences, targetCount)
}
