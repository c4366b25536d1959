package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/a3tai/pdf-report/internal/config"
	"github.com/a3tai/pdf-report/internal/document"
	"github.com/a3tai/pdf-report/internal/report"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDecoder struct{ doc *document.Document }

func (d stubDecoder) Decode(context.Context, string) (*document.Document, error) {
	return d.doc, nil
}

func TestVersionText(t *testing.T) {
	text := versionText()
	assert.Contains(t, text, "PDF Report")
	assert.Contains(t, text, "Version: "+version)
	assert.Contains(t, text, "Git Commit: "+gitCommit)
	assert.Contains(t, text, runtime.Version())
}

func TestRootCmd_Version(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Build Time: "+buildTime)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "build")
	assert.Contains(t, names, "serve")

	for _, flag := range []string{"dir", "out", "mode", "rules", "summary-count", "provenance-column", "log-format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestBuildCmd_RequiresFile(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"build"})

	assert.Error(t, root.Execute())
}

func TestBuildCmd_RejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("not a pdf"), 0o644))

	root := newRootCmd()
	var stderr bytes.Buffer
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&stderr)
	root.SetArgs([]string{"build", bad, "--dir", dir, "--out", dir, "--log-level", "error"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DECODE_FAILURE")

	_, statErr := os.Stat(filepath.Join(dir, report.TextFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuildWith_WritesOutputs(t *testing.T) {
	out := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.OutputDirectory = filepath.Join(out, "reports")

	doc := &document.Document{Pages: []document.Page{
		{
			Number: 1,
			Lines:  []string{"Revenue rose 12%."},
			RawTables: []document.RawTable{
				document.NewRawTable([][]string{{"A", "B"}, {"1"}}),
			},
		},
	}}
	service := report.NewService(stubDecoder{doc: doc}, report.NewBuilder())

	var stdout bytes.Buffer
	require.NoError(t, buildWith(context.Background(), cfg, service, "in.pdf", &stdout))

	text, err := os.ReadFile(filepath.Join(cfg.OutputDirectory, report.TextFileName))
	require.NoError(t, err)
	assert.Contains(t, string(text), "Financial: 12%")

	_, err = os.Stat(filepath.Join(cfg.OutputDirectory, report.SentencesFileName))
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "1 sentence(s), 1 table(s), 2 field(s)", lines[2])
	assert.Contains(t, lines[3], "Found 1 warning(s)")
}

func TestBuildWith_EmptyDocument(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDirectory = t.TempDir()
	service := report.NewService(stubDecoder{doc: &document.Document{Pages: []document.Page{{Number: 1}}}}, report.NewBuilder())

	err := buildWith(context.Background(), cfg, service, "scan.pdf", &bytes.Buffer{})
	assert.ErrorContains(t, err, "scan.pdf has no extractable text")
}

func TestNewPipeline_RulesFile(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("sections:\n  - label: Employee\n    keywords: [crew]\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.RulesFile = rules
	cfg.SummaryCount = 0

	decoder, builder, err := newPipeline(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, decoder)

	doc := &document.Document{Pages: []document.Page{{Number: 1, Lines: []string{"Crew of 40 45%"}}}}
	r, err := builder.Build(context.Background(), doc, "")
	require.NoError(t, err)

	got, ok := r.Fields.Get("Employee")
	require.True(t, ok)
	assert.Equal(t, "45%", got)

	cfg.RulesFile = filepath.Join(dir, "missing.yaml")
	_, _, err = newPipeline(cfg, zerolog.Nop())
	assert.Error(t, err)
}
