// Package report orchestrates the text and table pipelines over a decoded
// document and serializes the resulting report.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/a3tai/pdf-report/internal/document"
	"github.com/a3tai/pdf-report/internal/intelligence"
	pdferrors "github.com/a3tai/pdf-report/internal/pdf/errors"
	"github.com/a3tai/pdf-report/internal/summarize"
	"github.com/a3tai/pdf-report/internal/tables"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultPrompt is the fixed instruction header carried by every report
const DefaultPrompt = "Analyze the following document. Use the extracted text, tables and " +
	"processed fields to summarize its SWOT, employee, financial and technology/AI findings."

// Report is the structured result of one pipeline run
type Report struct {
	Prompt    string                     `json:"prompt"`
	FullText  string                     `json:"full_text"`
	Sentences []intelligence.Sentence    `json:"sentences"`
	Labeled   []intelligence.Labeled     `json:"labeled"`
	Lines     []intelligence.Labeled     `json:"lines"`
	Tables    []tables.NormalizedTable   `json:"tables"`
	Fields    *Fields                    `json:"-"`
	Summary   string                     `json:"summary,omitempty"`
	Warnings  []*pdferrors.PipelineError `json:"warnings,omitempty"`
}

// Builder runs the document-structuring pipeline
type Builder struct {
	segmenter    *intelligence.Segmenter
	classifier   *intelligence.SectionClassifier
	extractor    *intelligence.FieldExtractor
	normalizer   *tables.Normalizer
	summarizer   summarize.Summarizer
	summaryCount int
	logger       zerolog.Logger

	rules      intelligence.Rules
	provenance bool
}

// Option configures a Builder
type Option func(*Builder)

// WithRules replaces the abbreviation list and section keyword sets
func WithRules(rules intelligence.Rules) Option {
	return func(b *Builder) {
		b.rules = rules
	}
}

// WithSummarizer enables summaries of count sentences
func WithSummarizer(s summarize.Summarizer, count int) Option {
	return func(b *Builder) {
		b.summarizer = s
		b.summaryCount = count
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithProvenanceColumn embeds page numbers as a table column
func WithProvenanceColumn(enabled bool) Option {
	return func(b *Builder) {
		b.provenance = enabled
	}
}

// NewBuilder creates a Builder. Without WithSummarizer no summary is produced.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		rules:        intelligence.DefaultRules(),
		summaryCount: summarize.DefaultSentenceCount,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.segmenter = intelligence.NewSegmenter(b.rules.Abbreviations...)
	b.classifier = intelligence.NewSectionClassifier(b.rules.Sections)
	b.extractor = intelligence.NewFieldExtractor()

	normalizerOpts := []tables.Option{tables.WithLogger(b.logger)}
	if b.provenance {
		normalizerOpts = append(normalizerOpts, tables.WithProvenanceColumn())
	}
	b.normalizer = tables.NewNormalizer(normalizerOpts...)

	return b
}

// Segmenter exposes the builder's segmenter, e.g. to back a summarizer
func (b *Builder) Segmenter() *intelligence.Segmenter {
	return b.segmenter
}

// pageTables is the per-page normalization result
type pageTables struct {
	tables    []tables.NormalizedTable
	aggregate *tables.ColumnAggregate
	warnings  []*pdferrors.PipelineError
}

// Build turns a decoded document into a report.
//
// An invalid document yields a DecodeFailure and a document without text an
// EmptyDocument error; both can be told apart with errors.Is. Table and
// summarization problems are recorded as warnings on the report instead.
//
// Section fields are read from the page lines, labeled in document order;
// the labeled sentences only feed the summarizer.
func (b *Builder) Build(ctx context.Context, doc *document.Document, prompt string) (*Report, error) {
	if err := doc.Validate(); err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeDecodeFailure, "invalid document", err)
	}
	if doc.IsEmpty() {
		return nil, pdferrors.NewPipelineError(pdferrors.ErrorTypeEmptyDocument, "no extractable text on any page").
			WithContext(fmt.Sprintf("%d page(s) inspected", len(doc.Pages)))
	}

	logger := b.logger.With().Str("run_id", uuid.NewString()).Str("source", doc.Source).Logger()
	logger.Debug().Int("pages", len(doc.Pages)).Int("raw_tables", doc.TableCount()).Msg("building report")

	warnings := pdferrors.NewErrorCollection()

	fullText := doc.Text()
	sentences := b.segmenter.Segment(fullText)
	labeled := b.classifier.ClassifySentences(sentences)

	perPage, err := b.normalizePages(ctx, doc)
	if err != nil {
		return nil, err
	}

	var normalized []tables.NormalizedTable
	aggregate := tables.NewColumnAggregate()
	for _, page := range perPage {
		normalized = append(normalized, page.tables...)
		aggregate.Merge(page.aggregate)
		warnings.Add(page.warnings...)
	}

	lines := b.classifier.Classify(pageLines(doc))
	sectionFields := b.extractor.Extract(lines)
	fields := mergeFields(aggregate, sectionFields, logger)

	r := &Report{
		Prompt:    prompt,
		FullText:  fullText,
		Sentences: sentences,
		Labeled:   labeled,
		Lines:     lines,
		Tables:    normalized,
		Fields:    fields,
	}

	if b.summarizer != nil {
		summary, warning := b.summarize(ctx, labeled)
		r.Summary = summary
		warnings.Add(warning)
	}

	r.Warnings = warnings.Warnings
	logger.Info().
		Int("sentences", len(sentences)).
		Int("tables", len(normalized)).
		Int("fields", fields.Len()).
		Int("warnings", warnings.Count()).
		Msg("report built")

	return r, nil
}

// normalizePages runs the table normalizer for every page concurrently and
// returns the results indexed by page position, i.e. in page order
func (b *Builder) normalizePages(ctx context.Context, doc *document.Document) ([]pageTables, error) {
	results := make([]pageTables, len(doc.Pages))

	g, gctx := errgroup.WithContext(ctx)
	for i, page := range doc.Pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			normalized, warnings := b.normalizer.NormalizePage(page)
			results[i] = pageTables{
				tables:    normalized,
				aggregate: tables.NewColumnAggregate().Fold(normalized),
				warnings:  warnings,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// pageLines returns every page line in document order
func pageLines(doc *document.Document) []string {
	var lines []string
	for _, page := range doc.Pages {
		lines = append(lines, page.Lines...)
	}
	return lines
}

// mergeFields starts from the table aggregates and adds section fields whose
// names are still free; table-derived values win on collision
func mergeFields(aggregate *tables.ColumnAggregate, sections *intelligence.SectionFields, logger zerolog.Logger) *Fields {
	fields := NewFields()
	for _, column := range aggregate.Keys() {
		value, _ := aggregate.Get(column)
		fields.SetIfAbsent(column, value)
	}

	for _, label := range sections.Labels() {
		fv, _ := sections.Get(label)
		if !fields.SetIfAbsent(label.String(), fv.String()) {
			logger.Debug().Str("key", label.String()).Msg("section field shadowed by table column")
		}
	}

	return fields
}

// summarize asks the summarizer for a summary of the labeled sentences.
// Any failure leaves the summary empty.
func (b *Builder) summarize(ctx context.Context, labeled []intelligence.Labeled) (string, *pdferrors.PipelineError) {
	relevant := intelligence.Relevant(labeled)

	out, err := b.summarizer.Summarize(ctx, relevant, b.summaryCount)
	if err != nil {
		b.logger.Warn().Err(err).Msg("summarization failed")
		return "", pdferrors.WrapError(pdferrors.ErrorTypeSummarizationFailure, "summarizer returned an error", err)
	}
	if len(out) == 0 {
		b.logger.Warn().Msg("summarizer returned no sentences")
		return "", pdferrors.NewPipelineError(pdferrors.ErrorTypeSummarizationFailure, "summarizer returned no output")
	}

	return strings.Join(out, " "), nil
}
