package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/clothespin/internal/cachemanager"
	"github.com/zjrosen/clothespin/internal/presentation"
	"github.com/zjrosen/clothespin/internal/tracing"
	"github.com/zjrosen/clothespin/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "watch FILE...",
		Short: "Re-tokenize files whenever they change",
		Long: `Print a one-line summary of each file, then print it again every time
the file is written. Writes within the debounce window are batched.
Contents seen before are served from the token cache.

Press Ctrl+C to stop.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runWatch,
	}
	c.Flags().Duration("debounce", 100*time.Millisecond, "quiet period before re-tokenizing")
	return c
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %d file(s), press Ctrl+C to stop\n", len(args))
	err := watchFiles(ctx, out, args)
	fmt.Fprintln(out, "Stopped")
	return err
}

// watchFiles summarizes every file once and then once per change batch,
// until ctx is done.
func watchFiles(ctx context.Context, out io.Writer, names []string) error {
	changes, err := watcher.Watch(ctx, names, cfg.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	display := make(map[string]string, len(names))
	for _, name := range names {
		abs, err := filepath.Abs(name)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", name, err)
		}
		display[abs] = name
	}

	cache := cachemanager.NewTokenCache(cfg.Watch.CacheTTL)
	defer func() { fmt.Fprintln(out, cacheSummary(cache)) }()
	tracer := session.provider.Tracer()

	for _, name := range names {
		fmt.Fprintln(out, summarize(ctx, cache, name))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-changes:
			if !ok {
				return nil
			}
			batchCtx, span := tracer.Start(ctx, tracing.SpanWatch,
				trace.WithAttributes(attribute.Int("watch.files", len(batch))))
			for _, path := range batch {
				name := display[path]
				if name == "" {
					name = path
				}
				fmt.Fprintln(out, summarize(batchCtx, cache, name))
			}
			span.End()
		}
	}
}

// cacheSummary reports how many summaries were served from the token cache.
func cacheSummary(cache *cachemanager.TokenCache) string {
	hits, misses := cache.Stats()
	return fmt.Sprintf("token cache: %d hits, %d misses, %d entries, %d expired",
		hits, misses, cache.Len(), cache.Expired())
}

// summarize renders one status line for a file.
func summarize(ctx context.Context, cache *cachemanager.TokenCache, name string) string {
	data, err := os.ReadFile(name) // #nosec G304 -- user-supplied watch target
	if err != nil {
		return fmt.Sprintf("%s: %v", name, err)
	}
	src := string(data)

	entry, cached, err := cache.Lookup(ctx, src)
	if err != nil {
		return fmt.Sprintf("%s: %v", name, err)
	}
	trace.SpanFromContext(ctx).AddEvent("file", trace.WithAttributes(
		attribute.String(tracing.AttrFile, name),
		attribute.Bool(tracing.AttrCacheHit, cached),
	))

	line := fmt.Sprintf("%s: %d tokens, %d bytes", name, len(entry.Items), len(src))
	if cached {
		line += " (cached)"
	}
	if entry.Err != nil {
		line += "; " + presentation.DescribeError("", src, entry.Err)
	}
	return line
}
