package descriptions

import "sort"

// Tool names exposed by the MCP server
const (
	ToolBuildReport     = "pdf_build_report"
	ToolExportSentences = "pdf_export_sentences"
	ToolValidateFile    = "pdf_validate_file"
)

const (
	PDFBuildReportDescription = `Build a structured analysis report from a PDF document.

**When to use:** Need the text, tables and key figures of a business document (annual report, SWOT study, financial statement) in one place.

**What you get:** The extracted text, every detected table with unique column names, processed fields (column values aggregated across pages plus numbers and percentages found in SWOT, employee, financial and technology/AI passages) and an extractive summary.

**Examples:**
• "Build a report for annual-report-2023.pdf and list the financial figures"
• "What does the SWOT section of strategy.pdf say?"

**Notes:** Table values take precedence over text-derived values when both produce the same field name. Recoverable table problems are listed as warnings.`

	PDFExportSentencesDescription = `Export the sentences of a PDF document to an Excel workbook.

**When to use:** Need the document split into sentences for review, tagging or spreadsheet analysis.

**What you get:** An .xlsx file inside the output directory with a "Sentences" sheet holding one row per sentence (Index, Sentence). Abbreviations such as "Dr." or "e.g." never end a sentence.

**Examples:**
• "Export the sentences of policy.pdf to policy-sentences.xlsx"`

	PDFValidateFileDescription = `Verify that a file is a readable PDF before building a report.

**When to use:** Before processing unknown or user-supplied files.

**What you get:** Whether the file passed path, extension, size and structure checks, its page count, or the reason it was rejected.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolBuildReport:     PDFBuildReportDescription,
	ToolExportSentences: PDFExportSentencesDescription,
	ToolValidateFile:    PDFValidateFileDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
