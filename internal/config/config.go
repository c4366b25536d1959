package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Log formats
	FormatJSON    = "json"
	FormatConsole = "console"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = FormatConsole
	DefaultMaxFileSize  = 100 * 1024 * 1024 // 100MB
	DefaultSummaryCount = 5

	// EnvPrefix prefixes every environment variable read by the configuration
	EnvPrefix = "PDF_REPORT"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds the configuration shared by the CLI and the MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Input and output
	PDFDirectory    string
	OutputDirectory string
	MaxFileSize     int64 // Maximum PDF file size in bytes

	// Report pipeline
	Prompt           string
	RulesFile        string // optional YAML abbreviations and keyword sets
	SummaryCount     int    // 0 disables the summary
	ProvenanceColumn bool

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	LogFormat  string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio,
		Host:            DefaultHost,
		Port:            DefaultPort,
		PDFDirectory:    currentDir,
		OutputDirectory: currentDir,
		MaxFileSize:     DefaultMaxFileSize,
		SummaryCount:    DefaultSummaryCount,
		Version:         "1.0.0",
		ServerName:      "pdf-report",
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// LoadDotEnv loads variables from the given .env files, or ./.env when none
// are named. A missing default file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); os.IsNotExist(err) {
			return nil
		}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// DefineFlags registers the configuration flags on fs
func DefineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.String("dir", cfg.PDFDirectory, "Directory containing PDF files")
	fs.String("out", cfg.OutputDirectory, "Directory receiving output.txt and sentences.xlsx")
	fs.Int64("max-file-size", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.String("prompt", cfg.Prompt, "Instruction header placed at the top of the report")
	fs.String("rules", cfg.RulesFile, "YAML file overriding abbreviations and section keywords")
	fs.Int("summary-count", cfg.SummaryCount, "Number of summary sentences (0 disables the summary)")
	fs.Bool("provenance-column", cfg.ProvenanceColumn, "Add a Page column to every extracted table")
	fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("log-format", cfg.LogFormat, "Log format (console, json)")
}

// Load resolves the configuration from flags, PDF_REPORT_* environment
// variables and defaults, in that order of precedence
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	setupViperEnvironment(v, cfg)
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)

	for _, dir := range []*string{&cfg.PDFDirectory, &cfg.OutputDirectory} {
		if *dir == "" {
			continue
		}
		if abs, err := filepath.Abs(*dir); err == nil {
			*dir = abs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures environment lookup and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.PDFDirectory)
	v.SetDefault("out", cfg.OutputDirectory)
	v.SetDefault("max-file-size", cfg.MaxFileSize)
	v.SetDefault("prompt", cfg.Prompt)
	v.SetDefault("rules", cfg.RulesFile)
	v.SetDefault("summary-count", cfg.SummaryCount)
	v.SetDefault("provenance-column", cfg.ProvenanceColumn)
	v.SetDefault("log-level", cfg.LogLevel)
	v.SetDefault("log-format", cfg.LogFormat)
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.PDFDirectory = v.GetString("dir")
	cfg.OutputDirectory = v.GetString("out")
	cfg.MaxFileSize = v.GetInt64("max-file-size")
	cfg.Prompt = v.GetString("prompt")
	cfg.RulesFile = v.GetString("rules")
	cfg.SummaryCount = v.GetInt("summary-count")
	cfg.ProvenanceColumn = v.GetBool("provenance-column")
	cfg.LogLevel = strings.ToLower(v.GetString("log-level"))
	cfg.LogFormat = strings.ToLower(v.GetString("log-format"))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Create the PDF directory if it doesn't exist yet
	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.SummaryCount < 0 {
		return errors.New("summary count cannot be negative")
	}

	if c.RulesFile != "" {
		if _, err := os.Stat(c.RulesFile); err != nil {
			return fmt.Errorf("cannot access rules file %s: %w", c.RulesFile, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != FormatJSON && c.LogFormat != FormatConsole {
		return fmt.Errorf("invalid log format: %s (must be one of: console, json)", c.LogFormat)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, OutputDirectory: %s, "+
		"LogLevel: %s, MaxFileSize: %d, SummaryCount: %d, RulesFile: %s, ProvenanceColumn: %t}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.OutputDirectory,
		c.LogLevel, c.MaxFileSize, c.SummaryCount, c.RulesFile, c.ProvenanceColumn)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
