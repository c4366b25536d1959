package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/nao1215/markdown"
)

// Section headers of the plain-text report
const (
	HeaderText    = "=== Extracted Text ==="
	HeaderTables  = "=== Extracted Tables ==="
	HeaderFields  = "=== Processed Fields ==="
	HeaderSummary = "=== Summary ==="
)

// WriteText writes the report in its plain-text form: the prompt followed by
// the text, tables, fields and summary sections. Tables are padded to
// aligned columns. The output depends only on the report contents.
func WriteText(w io.Writer, r *Report) error {
	md := markdown.NewMarkdown(w)

	if r.Prompt != "" {
		md.PlainText(r.Prompt)
		md.PlainText("")
	}

	md.PlainText(HeaderText)
	md.PlainText("")
	md.PlainText(r.FullText)
	md.PlainText("")

	md.PlainText(HeaderTables)
	md.PlainText("")
	if len(r.Tables) == 0 {
		md.PlainText("(no tables)")
		md.PlainText("")
	}
	for _, table := range r.Tables {
		md.PlainText(fmt.Sprintf("%s (page %d)", table.Title, table.PageNumber))
		md.PlainText("")
		if len(table.Headers) == 0 {
			md.PlainText("(no columns)")
		} else {
			md.CustomTable(markdown.TableSet{Header: table.Headers, Rows: table.Rows}, markdown.TableOptions{})
		}
		md.PlainText("")
	}

	md.PlainText(HeaderFields)
	md.PlainText("")
	for _, key := range r.Fields.Keys() {
		value, _ := r.Fields.Get(key)
		md.PlainText(key + ": " + value)
	}
	md.PlainText("")

	md.PlainText(HeaderSummary)
	md.PlainText("")
	md.PlainText(r.Summary)

	return md.Build()
}

// String renders the report with WriteText
func (r *Report) String() string {
	var buf bytes.Buffer
	if err := WriteText(&buf, r); err != nil {
		return fmt.Sprintf("report: %v", err)
	}
	return buf.String()
}
