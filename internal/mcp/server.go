package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/a3tai/pdf-report/internal/config"
	"github.com/a3tai/pdf-report/internal/descriptions"
	"github.com/a3tai/pdf-report/internal/pdf"
	pdferrors "github.com/a3tai/pdf-report/internal/pdf/errors"
	"github.com/a3tai/pdf-report/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *report.Service
	validator *pdf.Validator
	outputs   *pdf.PathGuard
	mcpServer *server.MCPServer
	logger    zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *report.Service, validator *pdf.Validator, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("report service cannot be nil")
	}
	if validator == nil {
		return nil, fmt.Errorf("validator cannot be nil")
	}

	outputs, err := pdf.NewPathGuard(cfg.OutputDirectory)
	if err != nil {
		return nil, fmt.Errorf("invalid output directory: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		service:   service,
		validator: validator,
		outputs:   outputs,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	buildReportTool := mcp.NewTool(
		descriptions.ToolBuildReport,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolBuildReport)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(buildReportTool, s.handleBuildReport)

	exportSentencesTool := mcp.NewTool(
		descriptions.ToolExportSentences,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExportSentences)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
		mcp.WithString("output",
			mcp.Description("Workbook path inside the output directory (default sentences.xlsx)"),
		),
	)
	s.mcpServer.AddTool(exportSentencesTool, s.handleExportSentences)

	validateFileTool := mcp.NewTool(
		descriptions.ToolValidateFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolValidateFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)
}

func (s *Server) handleBuildReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := s.service.BuildReport(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(describeFailure(err)), nil
	}

	return mcp.NewToolResultText(formatReport(r)), nil
}

func (s *Server) handleExportSentences(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output := report.SentencesFileName
	if v, ok := request.GetArguments()["output"].(string); ok && strings.TrimSpace(v) != "" {
		output = v
	}
	output, err = s.resolveOutput(output)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !strings.HasSuffix(strings.ToLower(output), ".xlsx") {
		return mcp.NewToolResultError(fmt.Sprintf("output must be an .xlsx file: %s", output)), nil
	}

	f, err := os.Create(output)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot create output file: %v", err)), nil
	}

	r, err := s.service.ExportSentences(ctx, path, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(output)
		return mcp.NewToolResultError(describeFailure(err)), nil
	}

	s.logger.Info().Str("path", path).Str("output", output).Int("sentences", len(r.Sentences)).Msg("sentences exported")
	return mcp.NewToolResultText(fmt.Sprintf("Exported %d sentence(s) to %s", len(r.Sentences), output)), nil
}

func (s *Server) handleValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := s.service.Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.validator.ValidateFile(resolved)

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

// resolveOutput confines a workbook path to the output directory, creating
// the directory first so the containment check sees it
func (s *Server) resolveOutput(output string) (string, error) {
	if err := os.MkdirAll(s.outputs.Root(), config.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("cannot create output directory: %w", err)
	}

	resolved, err := s.outputs.Resolve(output)
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	return resolved, nil
}

// describeFailure turns pipeline failures into caller-facing messages
func describeFailure(err error) string {
	switch {
	case errors.Is(err, pdferrors.ErrEmptyDocument):
		return "The document has no extractable text (it may be scanned images only): " + err.Error()
	case errors.Is(err, pdferrors.ErrDecodeFailure):
		return "The file could not be decoded as a PDF: " + err.Error()
	default:
		return err.Error()
	}
}

// formatReport renders the report followed by its warnings
func formatReport(r *report.Report) string {
	var b strings.Builder
	b.WriteString(r.String())

	if len(r.Warnings) > 0 {
		b.WriteString("\n\nWarnings:\n")
		for _, w := range r.Warnings {
			b.WriteString("  • ")
			b.WriteString(w.Error())
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug().Str("dir", s.config.PDFDirectory).Msg("starting MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over HTTP with server-sent events until ctx ends
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	s.logger.Info().Str("addr", addr).Str("dir", s.config.PDFDirectory).Msg("starting MCP server in SSE mode")

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve sse: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down sse server: %w", err)
		}
		return nil
	}
}
