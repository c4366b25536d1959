package pdf

import (
	"fmt"
	"os"
	"strings"

	pdferrors "github.com/a3tai/pdf-report/internal/pdf/errors"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ValidationResult describes whether a file can be decoded
type ValidationResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// Validator checks files before they are handed to the text extractor
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator that rejects files above maxFileSize bytes
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateFile reports whether path holds a readable PDF. Validation
// problems are described in the result, not returned as errors.
func (v *Validator) ValidateFile(path string) *ValidationResult {
	result := &ValidationResult{Path: path}

	pages, err := v.Inspect(path)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Valid = true
	result.Pages = pages
	return result
}

// Inspect checks the file system constraints and parses the document
// structure, returning the page count. Every failure is a DecodeFailure.
func (v *Validator) Inspect(path string) (int, error) {
	if err := v.checkFile(path); err != nil {
		return 0, pdferrors.WrapError(pdferrors.ErrorTypeDecodeFailure, "file rejected", err).WithContext(path)
	}

	pages, err := pageCount(path)
	if err != nil {
		return 0, pdferrors.WrapError(pdferrors.ErrorTypeDecodeFailure, "unreadable PDF structure", err).WithContext(path)
	}

	return pages, nil
}

func (v *Validator) checkFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}

	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	if v.maxFileSize > 0 && info.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), v.maxFileSize)
	}

	return nil
}

// pageCount reads the cross-reference structure with pdfcpu in relaxed mode
func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return ctx.PageCount, nil
}
