package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelsOf(labeled []Labeled) []SectionLabel {
	out := make([]SectionLabel, len(labeled))
	for i, l := range labeled {
		out[i] = l.Label
	}
	return out
}

func TestClassify_StickyLabels(t *testing.T) {
	classifier := NewDefaultSectionClassifier()

	lines := []string{
		"SWOT ANALYSIS",
		"Strength: high margin",
		"unrelated filler",
		"FINANCIAL ANALYSIS",
		"profit rose 5%",
	}

	got := classifier.Classify(lines)
	require.Len(t, got, len(lines))
	assert.Equal(t, []SectionLabel{SWOT, SWOT, SWOT, Financial, Financial}, labelsOf(got))
	for i := range lines {
		assert.Equal(t, lines[i], got[i].Text)
	}
}

func TestClassify_InitialStateIsUnlabeled(t *testing.T) {
	got := NewDefaultSectionClassifier().Classify([]string{"cover page", "table of contents", "Employee headcount"})
	assert.Equal(t, []SectionLabel{Unlabeled, Unlabeled, Employee}, labelsOf(got))
}

func TestClassify_WordBoundaries(t *testing.T) {
	classifier := NewDefaultSectionClassifier()

	tests := []struct {
		text  string
		label SectionLabel
		match bool
	}{
		{"The nonprofit sector", Unlabeled, false},
		{"Profit rose", Financial, true},
		{"PROFIT", Financial, true},
		{"staffing agency", Unlabeled, false},
		{"our staff grew", Employee, true},
		{"AI adoption", TechnologyAI, true},
		{"maintenance", Unlabeled, false},
		{"artificial   intelligence roadmap", TechnologyAI, true},
		{"FIRSATLAR", SWOT, true},
		{"Yapay zeka yatırımları", TechnologyAI, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			label, ok := classifier.Match(tt.text)
			assert.Equal(t, tt.match, ok)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestClassify_PriorityTieBreak(t *testing.T) {
	classifier := NewDefaultSectionClassifier()

	// Matches SWOT ("threats"), Financial ("revenue") and TechnologyAI ("software").
	label, ok := classifier.Match("Software threats to revenue")
	require.True(t, ok)
	assert.Equal(t, SWOT, label)

	reordered := NewSectionClassifier([]SectionRule{
		{Label: TechnologyAI, Keywords: []string{"software"}},
		{Label: SWOT, Keywords: []string{"threats"}},
	})
	label, _ = reordered.Match("Software threats to revenue")
	assert.Equal(t, TechnologyAI, label)
}

func TestClassify_IsPurePerPass(t *testing.T) {
	classifier := NewDefaultSectionClassifier()

	first := classifier.Classify([]string{"FINANCIAL ANALYSIS", "numbers"})
	second := classifier.Classify([]string{"numbers"})

	assert.Equal(t, Financial, first[1].Label)
	assert.Equal(t, Unlabeled, second[0].Label)
}

func TestClassifySentences(t *testing.T) {
	sentences := NewSegmenter().Segment("Our workforce grew. It was a good year. Revenue doubled.")
	got := NewDefaultSectionClassifier().ClassifySentences(sentences)

	assert.Equal(t, []SectionLabel{Employee, Employee, Financial}, labelsOf(got))
}

func TestRelevant(t *testing.T) {
	labeled := []Labeled{
		{Text: "intro", Label: Unlabeled},
		{Text: "SWOT", Label: SWOT},
		{Text: "money", Label: Financial},
	}
	assert.Equal(t, []string{"SWOT", "money"}, Relevant(labeled))
}

func TestSectionLabel_RoundTrip(t *testing.T) {
	for _, label := range SectionLabels {
		parsed, err := ParseSectionLabel(label.String())
		require.NoError(t, err)
		assert.Equal(t, label, parsed)
	}

	_, err := ParseSectionLabel("Marketing")
	assert.Error(t, err)
	assert.False(t, Unlabeled.IsLabeled())
}
