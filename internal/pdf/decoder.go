// Package pdf decodes PDF files into per-page text lines and raw tables.
package pdf

import (
	"context"
	"fmt"

	"github.com/a3tai/pdf-report/internal/document"
	pdferrors "github.com/a3tai/pdf-report/internal/pdf/errors"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// Decoder turns a PDF file into a document.Document
type Decoder struct {
	validator *Validator
	logger    zerolog.Logger
}

// NewDecoder creates a decoder that rejects files above maxFileSize bytes
func NewDecoder(maxFileSize int64, logger zerolog.Logger) *Decoder {
	return &Decoder{
		validator: NewValidator(maxFileSize),
		logger:    logger,
	}
}

// Validator returns the decoder's file validator
func (d *Decoder) Validator() *Validator {
	return d.validator
}

// Decode reads every page of the file at path. A page whose content cannot
// be read is kept with no lines. A file that cannot be opened or parsed
// yields a DecodeFailure.
func (d *Decoder) Decode(ctx context.Context, path string) (*document.Document, error) {
	pages, err := d.validator.Inspect(path)
	if err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeDecodeFailure, "failed to open PDF", err).WithContext(path)
	}
	defer f.Close()

	if n := reader.NumPage(); n != pages {
		d.logger.Debug().Int("structure_pages", pages).Int("text_pages", n).Msg("page count mismatch")
		pages = n
	}

	doc := &document.Document{Source: path, Pages: make([]document.Page, 0, pages)}
	for n := 1; n <= pages; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		glyphs, err := readGlyphs(reader, n)
		if err != nil {
			d.logger.Warn().Err(err).Int("page", n).Msg("skipping unreadable page content")
			doc.Pages = append(doc.Pages, document.Page{Number: n})
			continue
		}
		doc.Pages = append(doc.Pages, BuildPage(n, glyphs))
	}

	d.logger.Debug().
		Str("path", path).
		Int("pages", len(doc.Pages)).
		Int("raw_tables", doc.TableCount()).
		Msg("decoded document")

	return doc, nil
}

// readGlyphs returns the positioned text of one page. The underlying
// reader panics on some malformed content streams.
func readGlyphs(reader *pdf.Reader, pageNum int) (glyphs []Glyph, err error) {
	defer func() {
		if r := recover(); r != nil {
			glyphs = nil
			err = fmt.Errorf("panic reading page %d: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}

	for _, t := range page.Content().Text {
		glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	return glyphs, nil
}
