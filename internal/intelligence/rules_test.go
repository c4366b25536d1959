package intelligence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, DefaultAbbreviations, rules.Abbreviations)
	require.Len(t, rules.Sections, 4)
	for i, label := range SectionLabels {
		assert.Equal(t, label, rules.Sections[i].Label)
		assert.NotEmpty(t, rules.Sections[i].Keywords)
	}
}

func TestParseRules(t *testing.T) {
	data := []byte(`
abbreviations: ["Corp.", "Dept."]
sections:
  - label: Financial
    keywords: [revenue, "net income"]
  - label: swot
    keywords: [threat]
`)

	rules, err := ParseRules(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Corp.", "Dept."}, rules.Abbreviations)
	require.Len(t, rules.Sections, 2)
	assert.Equal(t, Financial, rules.Sections[0].Label)
	assert.Equal(t, SWOT, rules.Sections[1].Label)

	classifier := NewSectionClassifier(rules.Sections)
	label, ok := classifier.Match("Net   income and threat")
	require.True(t, ok)
	assert.Equal(t, Financial, label)
}

func TestParseRules_KeepsDefaultsWhenOmitted(t *testing.T) {
	rules, err := ParseRules([]byte("abbreviations: [\"Dept.\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSectionRules(), rules.Sections)
}

func TestParseRules_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown label":   "sections:\n  - label: Marketing\n    keywords: [ads]\n",
		"unlabeled label": "sections:\n  - label: unlabeled\n    keywords: [x]\n",
		"duplicate label": "sections:\n  - label: SWOT\n    keywords: [a]\n  - label: swot\n    keywords: [b]\n",
		"no keywords":     "sections:\n  - label: SWOT\n",
		"invalid yaml":    "sections: [",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRules([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("abbreviations: [\"Ave.\"]\n"), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ave."}, rules.Abbreviations)

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
