package errors

import (
	stderrors "errors"
	"fmt"
)

// PipelineError describes a failure raised while turning a decoded document into a report
type PipelineError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Context     string    `json:"context,omitempty"`
	PageNumber  int       `json:"page_number,omitempty"`
	TableIndex  int       `json:"table_index,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Err         error     `json:"-"`
}

// ErrorType represents the categories of pipeline failures
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeDecodeFailure
	ErrorTypeMalformedTable
	ErrorTypeSummarizationFailure
	ErrorTypeEmptyDocument
)

// Sentinels usable with errors.Is; matching compares the error type only.
var (
	ErrDecodeFailure        = &PipelineError{Type: ErrorTypeDecodeFailure, Message: "document could not be decoded"}
	ErrMalformedTable       = &PipelineError{Type: ErrorTypeMalformedTable, Message: "table violates the header/row contract"}
	ErrSummarizationFailure = &PipelineError{Type: ErrorTypeSummarizationFailure, Message: "summarization failed"}
	ErrEmptyDocument        = &PipelineError{Type: ErrorTypeEmptyDocument, Message: "no extractable text on any page"}
)

// Error implements the error interface
func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is matches any PipelineError of the same type
func (e *PipelineError) Is(target error) bool {
	var other *PipelineError
	if !stderrors.As(target, &other) {
		return false
	}
	return other.Type == e.Type
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeDecodeFailure:
		return "DECODE_FAILURE"
	case ErrorTypeMalformedTable:
		return "MALFORMED_TABLE"
	case ErrorTypeSummarizationFailure:
		return "SUMMARIZATION_FAILURE"
	case ErrorTypeEmptyDocument:
		return "EMPTY_DOCUMENT"
	default:
		return "UNKNOWN"
	}
}

// IsRecoverable reports whether the pipeline degrades gracefully on this error type.
// Decode failures and empty documents abort the run; the rest are contained locally.
func (et ErrorType) IsRecoverable() bool {
	switch et {
	case ErrorTypeMalformedTable, ErrorTypeSummarizationFailure:
		return true
	default:
		return false
	}
}

// NewPipelineError creates a new PipelineError
func NewPipelineError(errorType ErrorType, message string) *PipelineError {
	return &PipelineError{
		Type:        errorType,
		Message:     message,
		Recoverable: errorType.IsRecoverable(),
	}
}

// WrapError wraps a standard error as a PipelineError
func WrapError(errorType ErrorType, message string, err error) *PipelineError {
	return &PipelineError{
		Type:        errorType,
		Message:     message,
		Recoverable: errorType.IsRecoverable(),
		Err:         err,
	}
}

// WithContext adds context to an existing PipelineError
func (e *PipelineError) WithContext(context string) *PipelineError {
	e.Context = context
	return e
}

// WithPage adds page number information to an existing PipelineError
func (e *PipelineError) WithPage(pageNumber int) *PipelineError {
	e.PageNumber = pageNumber
	return e
}

// WithTable records the 1-based index of the offending table on its page
func (e *PipelineError) WithTable(index int) *PipelineError {
	e.TableIndex = index
	return e
}

// IsType reports whether err is, or wraps, a PipelineError of the given type
func IsType(err error, errorType ErrorType) bool {
	var pe *PipelineError
	if !stderrors.As(err, &pe) {
		return false
	}
	return pe.Type == errorType
}

// ErrorCollection gathers the recoverable problems met during one run
type ErrorCollection struct {
	Warnings []*PipelineError `json:"warnings"`
}

// NewErrorCollection creates an empty collection
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{Warnings: make([]*PipelineError, 0)}
}

// Add appends warnings, skipping nil entries
func (ec *ErrorCollection) Add(errs ...*PipelineError) {
	for _, err := range errs {
		if err != nil {
			ec.Warnings = append(ec.Warnings, err)
		}
	}
}

// Count returns the number of collected warnings
func (ec *ErrorCollection) Count() int {
	return len(ec.Warnings)
}

// CountByType returns how many warnings of a given type were collected
func (ec *ErrorCollection) CountByType(errorType ErrorType) int {
	n := 0
	for _, w := range ec.Warnings {
		if w.Type == errorType {
			n++
		}
	}
	return n
}

// Summary returns a text summary of the collected warnings
func (ec *ErrorCollection) Summary() string {
	if len(ec.Warnings) == 0 {
		return "No warnings"
	}
	return fmt.Sprintf("Found %d warning(s): %d malformed table(s), %d summarization failure(s)",
		len(ec.Warnings),
		ec.CountByType(ErrorTypeMalformedTable),
		ec.CountByType(ErrorTypeSummarizationFailure))
}
