// Package tables turns raw per-page grids into normalized tables with unique
// headers and folds their columns into page-spanning aggregates.
package tables

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/a3tai/pdf-report/internal/document"
	pdferrors "github.com/a3tai/pdf-report/internal/pdf/errors"
	"github.com/rs/zerolog"
)

const (
	// ProvenanceColumn is the header used when page numbers are embedded as data
	ProvenanceColumn = "Page"

	maxHeadingWords = 10
)

// NormalizedTable is a table with unique headers and uniform row width
type NormalizedTable struct {
	Title      string     `json:"title"`
	PageNumber int        `json:"page_number"`
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"rows"`
}

// Normalizer repairs raw tables from a single page
type Normalizer struct {
	provenanceColumn bool
	logger           zerolog.Logger
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithProvenanceColumn embeds the page number as a trailing data column
// instead of keeping it only as table metadata
func WithProvenanceColumn() Option {
	return func(n *Normalizer) {
		n.provenanceColumn = true
	}
}

// WithLogger sets the logger used for data-quality warnings
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// NewNormalizer creates a Normalizer
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize builds NormalizedTables for one page. Tables with fewer than two
// rows are dropped. Row width problems are repaired and reported as
// MalformedTable warnings; this never fails.
func (n *Normalizer) Normalize(
	raw []document.RawTable, pageNumber int, precedingHeadings []string,
) ([]NormalizedTable, []*pdferrors.PipelineError) {
	title := Title(precedingHeadings, pageNumber)
	return n.normalize(raw, pageNumber, func(int) string { return title })
}

// NormalizePage normalizes every raw table of a page, titling each one from
// the heading-like lines that precede it on the page
func (n *Normalizer) NormalizePage(page document.Page) ([]NormalizedTable, []*pdferrors.PipelineError) {
	return n.normalize(page.RawTables, page.Number, func(i int) string {
		return Title(Headings(page.LinesBefore(i)), page.Number)
	})
}

func (n *Normalizer) normalize(
	raw []document.RawTable, pageNumber int, titleOf func(int) string,
) ([]NormalizedTable, []*pdferrors.PipelineError) {
	var (
		out      []NormalizedTable
		warnings []*pdferrors.PipelineError
	)

	for i, table := range raw {
		if len(table) < 2 {
			n.logger.Debug().
				Int("page", pageNumber).
				Int("table", i+1).
				Int("rows", len(table)).
				Msg("discarding table without data rows")
			continue
		}

		headers := NormalizeHeaders(table[0])
		width := len(headers)

		rows := make([][]string, 0, len(table)-1)
		for r, rawRow := range table[1:] {
			row, warning := n.fitRow(rawRow, width, pageNumber, i+1, r+1)
			if warning != nil {
				warnings = append(warnings, warning)
			}
			rows = append(rows, row)
		}

		if n.provenanceColumn {
			headers = NormalizeHeaders(toCells(append(headers, ProvenanceColumn)))
			page := strconv.Itoa(pageNumber)
			for r := range rows {
				rows[r] = append(rows[r], page)
			}
		}

		out = append(out, NormalizedTable{
			Title:      titleOf(i),
			PageNumber: pageNumber,
			Headers:    headers,
			Rows:       rows,
		})
	}

	return out, warnings
}

// fitRow pads or truncates a data row to the header width
func (n *Normalizer) fitRow(
	rawRow []*string, width, pageNumber, tableIndex, rowIndex int,
) ([]string, *pdferrors.PipelineError) {
	row := make([]string, width)
	for c := 0; c < width && c < len(rawRow); c++ {
		if rawRow[c] != nil {
			row[c] = strings.TrimSpace(*rawRow[c])
		}
	}

	if len(rawRow) == width {
		return row, nil
	}

	action := "padded"
	if len(rawRow) > width {
		action = "truncated"
	}

	n.logger.Warn().
		Int("page", pageNumber).
		Int("table", tableIndex).
		Int("row", rowIndex).
		Int("expected", width).
		Int("actual", len(rawRow)).
		Str("action", action).
		Msg("table row width does not match header")

	warning := pdferrors.NewPipelineError(pdferrors.ErrorTypeMalformedTable, "row width does not match header").
		WithContext(fmt.Sprintf("row %d has %d cells, expected %d (%s)", rowIndex, len(rawRow), width, action)).
		WithPage(pageNumber).
		WithTable(tableIndex)

	return row, warning
}

// NormalizeHeaders fills empty header cells with Column_{i} and suffixes
// repeated names with _{n}, n counting occurrences from 2
func NormalizeHeaders(raw []*string) []string {
	headers := make([]string, len(raw))
	occurrences := make(map[string]int, len(raw))
	used := make(map[string]bool, len(raw))

	for i, cell := range raw {
		name := ""
		if cell != nil {
			name = strings.TrimSpace(*cell)
		}
		if name == "" {
			name = fmt.Sprintf("Column_%d", i+1)
		}

		occurrences[name]++
		candidate := name
		if occurrences[name] > 1 {
			candidate = fmt.Sprintf("%s_%d", name, occurrences[name])
		}
		// A literal header such as "Name_2" may already hold the generated name.
		for used[candidate] {
			occurrences[name]++
			candidate = fmt.Sprintf("%s_%d", name, occurrences[name])
		}

		used[candidate] = true
		headers[i] = candidate
	}

	return headers
}

func toCells(values []string) []*string {
	cells := make([]*string, len(values))
	for i := range values {
		cells[i] = document.Cell(values[i])
	}
	return cells
}

// IsHeading reports whether a line looks like a section heading: every
// letter upper-case and fewer than ten words
func IsHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	words := strings.Fields(trimmed)
	if len(words) >= maxHeadingWords {
		return false
	}

	hasLetter := false
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// Headings returns the heading-like lines of a page in order
func Headings(lines []string) []string {
	var out []string
	for _, line := range lines {
		if IsHeading(line) {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

// Title picks the last heading preceding a table, or a page-based default
func Title(precedingHeadings []string, pageNumber int) string {
	for i := len(precedingHeadings) - 1; i >= 0; i-- {
		if IsHeading(precedingHeadings[i]) {
			return strings.TrimSpace(precedingHeadings[i])
		}
	}
	return fmt.Sprintf("Page %d Table", pageNumber)
}
