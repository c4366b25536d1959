package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/a3tai/pdf-report/internal/document"
	"github.com/rs/zerolog"
)

// Output file names written next to each other by WriteFiles
const (
	TextFileName      = "output.txt"
	SentencesFileName = "sentences.xlsx"
)

// Decoder produces a document from a file path
type Decoder interface {
	Decode(ctx context.Context, path string) (*document.Document, error)
}

// PathResolver maps a caller-supplied path to an allowed absolute path
type PathResolver interface {
	Resolve(path string) (string, error)
}

// Service decodes files and builds reports for the CLI and the MCP server
type Service struct {
	decoder  Decoder
	builder  *Builder
	resolver PathResolver
	prompt   string
	logger   zerolog.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithPathResolver restricts input and output paths
func WithPathResolver(r PathResolver) ServiceOption {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithPrompt overrides DefaultPrompt
func WithPrompt(prompt string) ServiceOption {
	return func(s *Service) {
		s.prompt = prompt
	}
}

// WithServiceLogger sets the service logger
func WithServiceLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service
func NewService(decoder Decoder, builder *Builder, opts ...ServiceOption) *Service {
	s := &Service{
		decoder: decoder,
		builder: builder,
		prompt:  DefaultPrompt,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve applies the path resolver, if any
func (s *Service) Resolve(path string) (string, error) {
	if s.resolver == nil {
		return path, nil
	}
	resolved, err := s.resolver.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// BuildReport decodes the file at path and builds its report
func (s *Service) BuildReport(ctx context.Context, path string) (*Report, error) {
	resolved, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}

	doc, err := s.decoder.Decode(ctx, resolved)
	if err != nil {
		return nil, err
	}

	return s.builder.Build(ctx, doc, s.prompt)
}

// ExportSentences builds the report for path and writes its sentences as a
// workbook to w
func (s *Service) ExportSentences(ctx context.Context, path string, w io.Writer) (*Report, error) {
	r, err := s.BuildReport(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := WriteSentencesXLSX(w, r.Sentences); err != nil {
		return nil, err
	}
	return r, nil
}

// WriteFiles writes the text report and the sentence workbook into dir.
// It returns the paths written.
func (s *Service) WriteFiles(r *Report, dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}

	textPath := filepath.Join(dir, TextFileName)
	if err := writeFile(textPath, func(w io.Writer) error { return WriteText(w, r) }); err != nil {
		return nil, err
	}

	sheetPath := filepath.Join(dir, SentencesFileName)
	if err := writeFile(sheetPath, func(w io.Writer) error { return WriteSentencesXLSX(w, r.Sentences) }); err != nil {
		return nil, err
	}

	s.logger.Info().Str("text", textPath).Str("sentences", sheetPath).Msg("report files written")
	return []string{textPath, sheetPath}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
