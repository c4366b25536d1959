package intelligence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SectionRule binds a label to the keywords that open its section
type SectionRule struct {
	Label    SectionLabel
	Keywords []string
}

// Rules is the complete configuration surface of the text pipeline
type Rules struct {
	Abbreviations []string
	Sections      []SectionRule
}

// DefaultRules returns the built-in abbreviation list and section keyword sets
func DefaultRules() Rules {
	return Rules{
		Abbreviations: append([]string(nil), DefaultAbbreviations...),
		Sections:      DefaultSectionRules(),
	}
}

// DefaultSectionRules returns the bilingual keyword sets in priority order
func DefaultSectionRules() []SectionRule {
	return []SectionRule{
		{
			Label: SWOT,
			Keywords: []string{
				"swot", "strength", "strengths", "weakness", "weaknesses",
				"opportunity", "opportunities", "threat", "threats",
				"güçlü yön", "güçlü yönler", "zayıf yön", "zayıf yönler",
				"fırsat", "fırsatlar", "tehdit", "tehditler",
			},
		},
		{
			Label: Employee,
			Keywords: []string{
				"employee", "employees", "staff", "personnel", "workforce",
				"headcount", "human resources", "hiring", "turnover rate",
				"çalışan", "çalışanlar", "personel", "insan kaynakları",
				"istihdam", "işgücü",
			},
		},
		{
			Label: Financial,
			Keywords: []string{
				"financial", "finance", "revenue", "revenues", "profit", "profits",
				"income", "ebitda", "net sales", "balance sheet", "cash flow",
				"operating margin", "earnings",
				"finansal", "mali", "gelir", "gelirler", "kâr", "kârlılık",
				"ciro", "bilanço", "nakit akışı", "satışlar",
			},
		},
		{
			Label: TechnologyAI,
			Keywords: []string{
				"technology", "technologies", "artificial intelligence", "ai",
				"machine learning", "deep learning", "digital transformation",
				"software", "automation", "data analytics",
				"teknoloji", "teknolojiler", "yapay zeka", "yapay zekâ",
				"makine öğrenmesi", "dijital dönüşüm", "yazılım", "otomasyon",
			},
		},
	}
}

type rulesFile struct {
	Abbreviations []string `yaml:"abbreviations"`
	Sections      []struct {
		Label    string   `yaml:"label"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"sections"`
}

// LoadRules reads a YAML rules file. Sections listed in the file replace the
// defaults and keep the file's order as their priority; omitted parts fall
// back to the built-in values.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes rules from YAML bytes
func ParseRules(data []byte) (Rules, error) {
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules: %w", err)
	}

	rules := DefaultRules()
	if len(file.Abbreviations) > 0 {
		rules.Abbreviations = file.Abbreviations
	}

	if len(file.Sections) > 0 {
		seen := make(map[SectionLabel]bool)
		sections := make([]SectionRule, 0, len(file.Sections))
		for _, s := range file.Sections {
			label, err := ParseSectionLabel(s.Label)
			if err != nil {
				return Rules{}, err
			}
			if !label.IsLabeled() {
				return Rules{}, fmt.Errorf("section label %q cannot carry keywords", s.Label)
			}
			if seen[label] {
				return Rules{}, fmt.Errorf("section %s listed twice", label)
			}
			if len(s.Keywords) == 0 {
				return Rules{}, fmt.Errorf("section %s has no keywords", label)
			}
			seen[label] = true
			sections = append(sections, SectionRule{Label: label, Keywords: s.Keywords})
		}
		rules.Sections = sections
	}

	return rules, nil
}
