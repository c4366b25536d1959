package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("pdf-report", pflag.ContinueOnError)
	DefineFlags(fs, DefaultConfig())
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(parseFlags(t, "--dir", dir))
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, dir, cfg.PDFDirectory)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, DefaultSummaryCount, cfg.SummaryCount)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
}

func TestLoad_Flags(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("abbreviations: [Dr.]\n"), 0o644))

	cfg, err := Load(parseFlags(t,
		"--mode=server",
		"--host=0.0.0.0",
		"--port=9000",
		"--dir="+dir,
		"--out="+dir,
		"--max-file-size=2048",
		"--prompt=Review this.",
		"--rules="+rules,
		"--summary-count=2",
		"--provenance-column",
		"--log-level=DEBUG",
		"--log-format=json",
	))
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, "0.0.0.0:9000", cfg.Address())
	assert.Equal(t, dir, cfg.OutputDirectory)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.Equal(t, "Review this.", cfg.Prompt)
	assert.Equal(t, rules, cfg.RulesFile)
	assert.Equal(t, 2, cfg.SummaryCount)
	assert.True(t, cfg.ProvenanceColumn)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, FormatJSON, cfg.LogFormat)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PDF_REPORT_MODE", "server")
	t.Setenv("PDF_REPORT_PORT", "3000")
	t.Setenv("PDF_REPORT_DIR", dir)
	t.Setenv("PDF_REPORT_LOG_LEVEL", "warn")
	t.Setenv("PDF_REPORT_MAX_FILE_SIZE", "200000000")
	t.Setenv("PDF_REPORT_SUMMARY_COUNT", "0")

	cfg, err := Load(parseFlags(t))
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, dir, cfg.PDFDirectory)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, int64(200000000), cfg.MaxFileSize)
	assert.Zero(t, cfg.SummaryCount)
}

func TestLoad_FlagOverridesEnvironment(t *testing.T) {
	t.Setenv("PDF_REPORT_MODE", "server")
	t.Setenv("PDF_REPORT_PORT", "3000")

	cfg, err := Load(parseFlags(t, "--mode=stdio", "--port=8888", "--dir="+t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, 8888, cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "mode", args: []string{"--mode=invalid"}},
		{name: "port", args: []string{"--mode=server", "--port=70000"}},
		{name: "log level", args: []string{"--log-level=verbose"}},
		{name: "log format", args: []string{"--log-format=xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--dir=" + t.TempDir()}, tt.args...)
			_, err := Load(parseFlags(t, args...))
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PDF_REPORT_HOST=10.0.0.1\n"), 0o644))
	t.Setenv("PDF_REPORT_HOST", "")
	os.Unsetenv("PDF_REPORT_HOST")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "10.0.0.1", os.Getenv("PDF_REPORT_HOST"))

	assert.Error(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
