package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/a3tai/pdf-report/internal/document"
	"golang.org/x/text/unicode/norm"
)

// Layout thresholds, relative to the glyph font size unless noted
const (
	baselineTolerance = 2.0 // points
	wordGapFactor     = 0.2
	cellGapFactor     = 2.0
	fallbackFontSize  = 10.0
)

// Glyph is a positioned run of text on a page
type Glyph struct {
	X, Y     float64
	W        float64
	FontSize float64
	S        string
}

// TextLine is a line of glyphs split into cells at wide horizontal gaps
type TextLine struct {
	Y     float64
	Cells []string
}

// Text returns the cells joined by single spaces
func (l TextLine) Text() string {
	return strings.Join(l.Cells, " ")
}

// GroupLines clusters glyphs sharing a baseline into lines, top to bottom,
// and orders each line left to right
func GroupLines(glyphs []Glyph) []TextLine {
	if len(glyphs) == 0 {
		return nil
	}

	sorted := append([]Glyph(nil), glyphs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var (
		lines   []TextLine
		current []Glyph
	)
	flush := func() {
		if line, ok := buildLine(current); ok {
			lines = append(lines, line)
		}
		current = nil
	}

	for _, g := range sorted {
		if len(current) > 0 && math.Abs(current[0].Y-g.Y) > baselineTolerance {
			flush()
		}
		current = append(current, g)
	}
	flush()

	return lines
}

func buildLine(glyphs []Glyph) (TextLine, bool) {
	if len(glyphs) == 0 {
		return TextLine{}, false
	}

	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })

	var (
		cells []string
		cell  strings.Builder
		end   = glyphs[0].X
	)
	for i, g := range glyphs {
		size := g.FontSize
		if size <= 0 {
			size = fallbackFontSize
		}
		gap := g.X - end

		switch {
		case i == 0:
		case gap > cellGapFactor*size:
			cells = appendCell(cells, cell.String())
			cell.Reset()
		case gap > wordGapFactor*size:
			cell.WriteByte(' ')
		}

		cell.WriteString(g.S)
		end = math.Max(end, g.X+g.W)
	}
	cells = appendCell(cells, cell.String())

	if len(cells) == 0 {
		return TextLine{}, false
	}
	return TextLine{Y: glyphs[0].Y, Cells: cells}, true
}

func appendCell(cells []string, text string) []string {
	text = strings.Join(strings.Fields(norm.NFC.String(text)), " ")
	if text == "" {
		return cells
	}
	return append(cells, text)
}

// DetectTables treats runs of two or more consecutive lines that have the
// same number of cells, at least two, as raw tables. The first line of a
// run becomes the header row. It also returns the index of each table's
// first line.
func DetectTables(lines []TextLine) ([]document.RawTable, []int) {
	var (
		tables []document.RawTable
		starts []int
		run    [][]string
		start  int
	)
	flush := func() {
		if len(run) >= 2 {
			tables = append(tables, document.NewRawTable(run))
			starts = append(starts, start)
		}
		run = nil
	}

	for i, line := range lines {
		if len(line.Cells) < 2 {
			flush()
			continue
		}
		if len(run) > 0 && len(run[0]) != len(line.Cells) {
			flush()
		}
		if len(run) == 0 {
			start = i
		}
		run = append(run, line.Cells)
	}
	flush()

	return tables, starts
}

// BuildPage assembles a document page from its glyphs
func BuildPage(number int, glyphs []Glyph) document.Page {
	lines := GroupLines(glyphs)
	tables, starts := DetectTables(lines)

	page := document.Page{Number: number, RawTables: tables, TableStarts: starts}
	for _, line := range lines {
		page.Lines = append(page.Lines, line.Text())
	}
	return page
}
