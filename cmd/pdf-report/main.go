package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/pdf-report/internal/config"
	"github.com/a3tai/pdf-report/internal/intelligence"
	"github.com/a3tai/pdf-report/internal/logging"
	"github.com/a3tai/pdf-report/internal/mcp"
	"github.com/a3tai/pdf-report/internal/pdf"
	pdferrors "github.com/a3tai/pdf-report/internal/pdf/errors"
	"github.com/a3tai/pdf-report/internal/report"
	"github.com/a3tai/pdf-report/internal/summarize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pdf-report",
		Short: "Turn PDF documents into structured analysis reports",
		Long: "pdf-report extracts text and tables from PDF documents, labels SWOT, employee,\n" +
			"financial and technology/AI passages and aggregates their figures into a report.",
		Version:      version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(versionText())

	config.DefineFlags(root.PersistentFlags(), config.DefaultConfig())

	root.AddCommand(newBuildCmd(), newServeCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <file.pdf>",
		Short: "Build a report and write output.txt and sentences.xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runBuild(ctx, cfg, logger, args[0], cmd.OutOrStdout())
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio or SSE, see --mode)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			decoder, builder, err := newPipeline(cfg, logger)
			if err != nil {
				return err
			}

			guard, err := pdf.NewPathGuard(cfg.PDFDirectory)
			if err != nil {
				return err
			}

			service := newService(cfg, decoder, builder, logger, report.WithPathResolver(guard))
			server, err := mcp.NewServer(cfg, service, decoder.Validator(), logger)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			if cfg.IsDebug() {
				logger.Debug().Str("config", cfg.String()).Msg("starting")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			return server.Run(ctx)
		},
	}
}

// setup loads the configuration from the command's flags and builds the logger
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if version != "dev" {
		cfg.Version = version
	}

	logger := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Output:      cmd.ErrOrStderr(),
		ServiceName: cfg.ServerName,
	})

	return cfg, logger, nil
}

// newPipeline wires the decoder and report builder from the configuration
func newPipeline(cfg *config.Config, logger zerolog.Logger) (*pdf.Decoder, *report.Builder, error) {
	rules := intelligence.DefaultRules()
	if cfg.RulesFile != "" {
		loaded, err := intelligence.LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, nil, err
		}
		rules = loaded
	}

	opts := []report.Option{
		report.WithRules(rules),
		report.WithLogger(logger),
		report.WithProvenanceColumn(cfg.ProvenanceColumn),
	}
	if cfg.SummaryCount > 0 {
		splitter := intelligence.NewSegmenter(rules.Abbreviations...)
		opts = append(opts, report.WithSummarizer(summarize.NewFrequencySummarizer(splitter), cfg.SummaryCount))
	}

	return pdf.NewDecoder(cfg.MaxFileSize, logger), report.NewBuilder(opts...), nil
}

func newService(
	cfg *config.Config, decoder report.Decoder, builder *report.Builder, logger zerolog.Logger, opts ...report.ServiceOption,
) *report.Service {
	opts = append(opts, report.WithServiceLogger(logger))
	if cfg.Prompt != "" {
		opts = append(opts, report.WithPrompt(cfg.Prompt))
	}
	return report.NewService(decoder, builder, opts...)
}

// runBuild builds the report for path and writes the output files
func runBuild(ctx context.Context, cfg *config.Config, logger zerolog.Logger, path string, out io.Writer) error {
	decoder, builder, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}
	return buildWith(ctx, cfg, newService(cfg, decoder, builder, logger), path, out)
}

func buildWith(ctx context.Context, cfg *config.Config, service *report.Service, path string, out io.Writer) error {
	r, err := service.BuildReport(ctx, path)
	switch {
	case errors.Is(err, pdferrors.ErrEmptyDocument):
		return fmt.Errorf("%s has no extractable text: %w", path, err)
	case err != nil:
		return err
	}

	if err := os.MkdirAll(cfg.OutputDirectory, config.DefaultDirPerm); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	paths, err := service.WriteFiles(r, cfg.OutputDirectory)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Fprintf(out, "wrote %s\n", p)
	}
	fmt.Fprintf(out, "%d sentence(s), %d table(s), %d field(s)\n", len(r.Sentences), len(r.Tables), r.Fields.Len())
	if len(r.Warnings) > 0 {
		collection := pdferrors.NewErrorCollection()
		collection.Add(r.Warnings...)
		fmt.Fprintln(out, collection.Summary())
	}

	return nil
}

// versionText returns the version information printed by --version
func versionText() string {
	return fmt.Sprintf("PDF Report\nVersion: %s\nBuild Time: %s\nGit Commit: %s\nBuilt with: %s\n",
		version, buildTime, gitCommit, runtime.Version())
}
