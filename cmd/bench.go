package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/clothespin/internal/bench"
	"github.com/zjrosen/clothespin/internal/infrastructure/sqlite"
	"github.com/zjrosen/clothespin/internal/tracing"
)

func newBenchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "bench FILE",
		Short: "Measure tokenizer throughput on a file",
		Long: `Tokenize FILE repeatedly and print the throughput in bytes per second.

With --record the run is stored in the bench history database, which
"clothespin bench history" lists.

Examples:
  clothespin bench gravity.py
  clothespin bench -n 5000 --record gravity.py`,
		Args: cobra.ExactArgs(1),
		RunE: runBench,
	}
	f := c.PersistentFlags()
	f.String("db", "", "bench history database (default: ~/.config/clothespin/bench.db)")
	c.Flags().IntP("iterations", "n", 1000, "number of passes over the file")
	c.Flags().Bool("record", false, "store the run in the bench history database")

	history := &cobra.Command{
		Use:   "history",
		Short: "List recorded benchmark runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runBenchHistory,
	}
	history.Flags().String("file", "", "only show runs of this file")
	history.Flags().Int("limit", 20, "maximum number of runs (0 for all)")
	c.AddCommand(history)
	return c
}

func runBench(cmd *cobra.Command, args []string) error {
	name := args[0]
	src, err := readSource(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}

	ctx, span := session.provider.Tracer().Start(cmd.Context(), tracing.SpanBench, trace.WithAttributes(
		attribute.String(tracing.AttrFile, name),
		attribute.Int(tracing.AttrFileBytes, len(src)),
		attribute.Int(tracing.AttrIterations, cfg.Bench.Iterations),
	))
	defer span.End()

	run, err := bench.Measure(ctx, name, src, cfg.Bench.Iterations)
	if err != nil {
		span.RecordError(err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "bench: tokenizer: %s\n", run)
	if run.Err != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s stops early: %s\n", name, run.Err)
	}

	if record, _ := cmd.Flags().GetBool("record"); !record {
		return nil
	}
	db, err := sqlite.NewDB(cfg.Bench.DBPath)
	if err != nil {
		return fmt.Errorf("opening bench history: %w", err)
	}
	defer db.Close()
	if err := db.BenchRuns().Save(ctx, run); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "recorded run %s in %s\n", run.ID, db.Path())
	return nil
}

func runBenchHistory(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	limit, _ := cmd.Flags().GetInt("limit")

	db, err := sqlite.NewDB(cfg.Bench.DBPath)
	if err != nil {
		return fmt.Errorf("opening bench history: %w", err)
	}
	defer db.Close()

	runs, err := db.BenchRuns().List(cmd.Context(), bench.ListFilter{File: file, Limit: limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "WHEN", "FILE", "BYTES", "N", "ELAPSED", "RATE (B/s)")
	for _, r := range runs {
		t.Row(
			shortID(r.ID),
			r.CreatedAt.Format(time.DateTime),
			r.File,
			fmt.Sprint(r.Bytes),
			fmt.Sprint(r.Iterations),
			r.Elapsed.Round(time.Microsecond).String(),
			fmt.Sprint(int64(r.Rate())),
		)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
