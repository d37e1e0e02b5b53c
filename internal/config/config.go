// Package config provides configuration types and defaults for clothespin.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/clothespin/internal/log"
)

// Output formats accepted by OutputConfig.Format.
const (
	FormatText      = "text"
	FormatJSON      = "json"
	FormatYAML      = "yaml"
	FormatHighlight = "highlight"
)

// Formats lists every output format in display order.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatHighlight}

// Config holds all configuration options for clothespin.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Bench   BenchConfig   `mapstructure:"bench"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Log     LogConfig     `mapstructure:"log"`
}

// OutputConfig controls how token streams are printed.
type OutputConfig struct {
	Format       string `mapstructure:"format"`         // text (default), json, yaml, highlight
	Spans        bool   `mapstructure:"spans"`          // Print byte spans next to tokens
	MaxTextWidth int    `mapstructure:"max_text_width"` // Truncate token text wider than this; 0 disables
	Color        string `mapstructure:"color"`          // auto (default), always, never
}

// BenchConfig holds benchmark defaults.
type BenchConfig struct {
	Iterations int    `mapstructure:"iterations"`
	DBPath     string `mapstructure:"db_path"` // History database used by --record
}

// WatchConfig holds file watcher settings.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`  // Quiet period before re-tokenizing
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // Lifetime of cached token streams
}

// LogConfig holds debug logging settings.
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"` // debug (default), info, warn, error
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/clothespin/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// 1.0 = all traces, 0.1 = 10% of traces
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Dir returns ~/.config/clothespin, or an empty string if the home
// directory is unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "clothespin")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/clothespin/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// DefaultBenchDBPath returns ~/.config/clothespin/bench.db or an empty
// string if home dir unavailable.
func DefaultBenchDBPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "bench.db")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Output: OutputConfig{
			Format:       FormatText,
			Spans:        false,
			MaxTextWidth: 40,
			Color:        "auto",
		},
		Bench: BenchConfig{
			Iterations: 1000,
			DBPath:     DefaultBenchDBPath(),
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
			CacheTTL: 5 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Log: LogConfig{
			Debug: false,
			File:  "debug.log",
			Level: "debug",
		},
	}
}

// Validate checks every section and joins the errors found.
func (c Config) Validate() error {
	return errors.Join(
		ValidateOutput(c.Output),
		ValidateBench(c.Bench),
		ValidateWatch(c.Watch),
		ValidateTracing(c.Tracing),
		ValidateLog(c.Log),
	)
}

// ValidateOutput checks output configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateOutput(out OutputConfig) error {
	if out.Format != "" && !validFormat(out.Format) {
		return fmt.Errorf("output.format must be one of %v, got %q", Formats, out.Format)
	}
	if out.MaxTextWidth < 0 {
		return fmt.Errorf("output.max_text_width must not be negative, got %d", out.MaxTextWidth)
	}
	switch out.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be \"auto\", \"always\", or \"never\", got %q", out.Color)
	}
	return nil
}

func validFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// ValidateBench checks benchmark configuration for errors.
func ValidateBench(bench BenchConfig) error {
	if bench.Iterations < 0 {
		return fmt.Errorf("bench.iterations must not be negative, got %d", bench.Iterations)
	}
	return nil
}

// ValidateWatch checks watcher configuration for errors.
func ValidateWatch(watch WatchConfig) error {
	if watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", watch.Debounce)
	}
	if watch.CacheTTL < 0 {
		return fmt.Errorf("watch.cache_ttl must not be negative, got %v", watch.CacheTTL)
	}
	return nil
}

// ValidateLog checks logging configuration for errors.
func ValidateLog(l LogConfig) error {
	switch l.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", l.Level)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	// Validate SampleRate is in range [0.0, 1.0]
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# clothespin configuration

# How token streams are printed by 'clothespin tokenize'
output:
  format: text          # text (default), json, yaml, or highlight
  spans: false          # Print byte spans next to each token
  max_text_width: 40    # Truncate long identifiers/literals/comments (0 = never)
  color: auto           # auto (default), always, or never

# Throughput benchmark ('clothespin bench')
bench:
  iterations: 1000      # Tokenizer passes per run
  # db_path: ~/.config/clothespin/bench.db  # History database used by --record

# File watching ('clothespin watch')
watch:
  debounce: 100ms       # Wait for writes to settle before re-tokenizing
  cache_ttl: 5m         # How long unchanged files are served from cache

# Debug logging (also enabled by --debug or CLOTHESPIN_DEBUG=1)
log:
  debug: false
  file: debug.log
  level: debug          # debug, info, warn, or error

# Distributed tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/clothespin/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
