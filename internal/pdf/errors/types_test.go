package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTypeString(t *testing.T) {
	tests := map[ErrorType]string{
		ErrorTypeUnknown:              "UNKNOWN",
		ErrorTypeDecodeFailure:        "DECODE_FAILURE",
		ErrorTypeMalformedTable:       "MALFORMED_TABLE",
		ErrorTypeSummarizationFailure: "SUMMARIZATION_FAILURE",
		ErrorTypeEmptyDocument:        "EMPTY_DOCUMENT",
	}
	for et, want := range tests {
		assert.Equal(t, want, et.String())
	}
}

func TestPipelineError_Is(t *testing.T) {
	decode := WrapError(ErrorTypeDecodeFailure, "failed to open PDF", fmt.Errorf("bad xref"))
	wrapped := fmt.Errorf("build report: %w", decode)

	assert.True(t, stderrors.Is(wrapped, ErrDecodeFailure))
	assert.False(t, stderrors.Is(wrapped, ErrEmptyDocument))
	assert.True(t, IsType(wrapped, ErrorTypeDecodeFailure))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeDecodeFailure))
	assert.EqualError(t, stderrors.Unwrap(decode), "bad xref")
}

func TestPipelineError_Error(t *testing.T) {
	err := NewPipelineError(ErrorTypeMalformedTable, "row length mismatch").
		WithContext("expected 3 cells, got 2").
		WithPage(4).
		WithTable(1)

	assert.Equal(t, "[MALFORMED_TABLE] row length mismatch: expected 3 cells, got 2", err.Error())
	assert.Equal(t, 4, err.PageNumber)
	assert.Equal(t, 1, err.TableIndex)
	assert.True(t, err.Recoverable)
}

func TestRecoverability(t *testing.T) {
	assert.False(t, ErrorTypeDecodeFailure.IsRecoverable())
	assert.False(t, ErrorTypeEmptyDocument.IsRecoverable())
	assert.True(t, ErrorTypeMalformedTable.IsRecoverable())
	assert.True(t, ErrorTypeSummarizationFailure.IsRecoverable())
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection()
	assert.Equal(t, "No warnings", ec.Summary())

	ec.Add(
		NewPipelineError(ErrorTypeMalformedTable, "short row"),
		nil,
		NewPipelineError(ErrorTypeSummarizationFailure, "no output"),
	)

	assert.Equal(t, 2, ec.Count())
	assert.Equal(t, 1, ec.CountByType(ErrorTypeMalformedTable))
	assert.Contains(t, ec.Summary(), "Found 2 warning(s)")
}
