package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/clothespin/internal/config"
	"github.com/zjrosen/clothespin/internal/highlight"
	"github.com/zjrosen/clothespin/internal/log"
	"github.com/zjrosen/clothespin/internal/tracing"
)

const localConfigPath = ".clothespin/config.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

// session holds per-invocation resources released by Execute.
var session struct {
	provider   *tracing.Provider
	span       trace.Span
	closeLog   func()
	configPath string
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"format":     "output.format",
	"spans":      "output.spans",
	"max-width":  "output.max_text_width",
	"color":      "output.color",
	"iterations": "bench.iterations",
	"db":         "bench.db_path",
	"debounce":   "watch.debounce",
	"debug":      "log.debug",
	"log-file":   "log.file",
	"trace":      "tracing.enabled",
}

func newRootCmd() *cobra.Command {
	cfgFile = ""
	root := &cobra.Command{
		Use:   "clothespin",
		Short: "Tokenizer for an extended Python-like language",
		Long: `clothespin turns source files into token streams.

It prints tokens with spans, highlights source, diffs token streams,
benchmarks the tokenizer and re-tokenizes files as they change.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .clothespin/config.yaml or ~/.config/clothespin/config.yaml)")
	pf.Bool("debug", false, "enable debug logging (also "+log.EnvDebug+")")
	pf.String("log-file", "", "debug log file (default: debug.log)")
	pf.Bool("trace", false, "enable tracing with the configured exporter")

	root.AddCommand(
		newTokenizeCmd(),
		newBenchCmd(),
		newDiffCmd(),
		newWatchCmd(),
		newCatalogCmd(),
		newConfigCmd(),
	)
	return root
}

// setup loads configuration and starts logging and tracing for the
// command about to run.
func setup(cmd *cobra.Command, _ []string) error {
	v, loaded, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg = loaded
	path := v.ConfigFileUsed()
	session.configPath = path

	if cfg.Log.Debug || log.DebugFromEnv() {
		closeLog, err := log.Init(cfg.Log.File, log.ParseLevel(cfg.Log.Level))
		if err != nil {
			return err
		}
		session.closeLog = closeLog
	}
	highlight.SetColorMode(cfg.Output.Color)

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	session.provider = provider
	ctx, span := provider.Tracer().Start(cmd.Context(), tracing.SpanCommand,
		trace.WithAttributes(attribute.String(tracing.AttrCommand, cmd.CommandPath())))
	session.span = span
	cmd.SetContext(ctx)

	log.Info(log.CatCLI, "Running command", "command", cmd.CommandPath(),
		"config", path, "traceID", tracing.TraceIDFromContext(ctx))
	return nil
}

// loadConfig merges defaults, the config file, CLOTHESPIN_* environment
// variables and command flags, in increasing priority. The returned viper's
// ConfigFileUsed is the config file path, which may not exist yet.
func loadConfig(cmd *cobra.Command) (*viper.Viper, config.Config, error) {
	v := viper.New()
	setDefaults(v, config.Defaults())

	v.SetEnvPrefix("CLOTHESPIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := resolveConfigPath()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, config.Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, config.Config{}, fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return v, c, nil
}

// resolveConfigPath picks --config, then .clothespin/config.yaml if it
// exists, then the user config file.
func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if _, err := os.Stat(localConfigPath); err == nil {
		return localConfigPath
	}
	if dir := config.Dir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return localConfigPath
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.spans", d.Output.Spans)
	v.SetDefault("output.max_text_width", d.Output.MaxTextWidth)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("bench.iterations", d.Bench.Iterations)
	v.SetDefault("bench.db_path", d.Bench.DBPath)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.cache_ttl", d.Watch.CacheTTL)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}

// teardown ends the command span and flushes traces.
func teardown() {
	if session.span != nil {
		session.span.End()
		session.span = nil
	}
	if session.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := session.provider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: flushing traces: %v\n", err)
		}
		cancel()
		session.provider = nil
	}
	if session.closeLog != nil {
		session.closeLog()
		session.closeLog = nil
	}
}

// Execute runs the root command
func Execute() error {
	return execute(context.Background(), os.Args[1:])
}

func execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	defer teardown()
	return root.ExecuteContext(ctx)
}

// ExitCode maps the error returned by Execute to a process exit status:
// 0 on success, 1 when diff --exit-code found differences, 2 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errStreamsDiffer):
		return 1
	default:
		return 2
	}
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
