package report

import (
	"fmt"
	"io"

	"github.com/a3tai/pdf-report/internal/intelligence"
	"github.com/xuri/excelize/v2"
)

// SentencesSheet is the worksheet holding the segmented sentences
const SentencesSheet = "Sentences"

// WriteSentencesXLSX writes one row per sentence, with its 1-based index and
// text, under an Index/Sentence header row
func WriteSentencesXLSX(w io.Writer, sentences []intelligence.Sentence) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := f.SetSheetName("Sheet1", SentencesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SentencesSheet, "A1", &[]any{"Index", "Sentence"}); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, s := range sentences {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SentencesSheet, cell, &[]any{s.Index, s.Text}); err != nil {
			return fmt.Errorf("failed to write sentence %d: %w", s.Index, err)
		}
	}

	if err := f.SetColWidth(SentencesSheet, "B", "B", 100); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
