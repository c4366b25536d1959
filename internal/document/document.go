// Package document holds the page-oriented input model handed to the report
// pipeline by a decoding collaborator.
package document

import (
	"fmt"
	"strings"
)

// RawTable is a grid of optional cells as produced by the decoder.
// Row 0 is the header candidate; a nil cell means the cell was absent.
type RawTable [][]*string

// Page is one unit of the source document.
// TableStarts, when set, holds for each raw table the index in Lines of the
// line the table starts at.
type Page struct {
	Number      int        `json:"page_number"`
	Lines       []string   `json:"lines"`
	RawTables   []RawTable `json:"raw_tables,omitempty"`
	TableStarts []int      `json:"table_starts,omitempty"`
}

// Document is the ordered sequence of decoded pages.
type Document struct {
	Source string `json:"source,omitempty"`
	Pages  []Page `json:"pages"`
}

// Cell returns a pointer to s, for building raw grids from literals.
func Cell(s string) *string {
	return &s
}

// NewRawTable builds a RawTable where every cell is present.
func NewRawTable(rows [][]string) RawTable {
	table := make(RawTable, 0, len(rows))
	for _, row := range rows {
		cells := make([]*string, len(row))
		for i := range row {
			cells[i] = Cell(row[i])
		}
		table = append(table, cells)
	}
	return table
}

// Text joins the page lines with single line breaks.
func (p Page) Text() string {
	return strings.Join(p.Lines, "\n")
}

// LinesBefore returns the lines preceding the i-th raw table. Without a
// recorded start every line of the page is returned.
func (p Page) LinesBefore(i int) []string {
	if i < 0 || i >= len(p.TableStarts) {
		return p.Lines
	}
	start := p.TableStarts[i]
	if start < 0 {
		start = 0
	}
	if start > len(p.Lines) {
		start = len(p.Lines)
	}
	return p.Lines[:start]
}

// HasText reports whether any line carries non-whitespace content.
func (p Page) HasText() bool {
	for _, line := range p.Lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

// Validate checks that page numbers are 1-based and strictly increasing.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("document is nil")
	}

	previous := 0
	for i, page := range d.Pages {
		if page.Number < 1 {
			return fmt.Errorf("page at position %d has non-positive number %d", i, page.Number)
		}
		if page.Number <= previous {
			return fmt.Errorf("page numbers must be strictly increasing: %d follows %d", page.Number, previous)
		}
		previous = page.Number
	}

	return nil
}

// Text concatenates every page's text in page order, one line break between pages.
func (d *Document) Text() string {
	texts := make([]string, len(d.Pages))
	for i, page := range d.Pages {
		texts[i] = page.Text()
	}
	return strings.Join(texts, "\n")
}

// IsEmpty reports whether no page carries extractable text.
func (d *Document) IsEmpty() bool {
	for _, page := range d.Pages {
		if page.HasText() {
			return false
		}
	}
	return true
}

// TableCount returns the number of raw tables across all pages.
func (d *Document) TableCount() int {
	total := 0
	for _, page := range d.Pages {
		total += len(page.RawTables)
	}
	return total
}
