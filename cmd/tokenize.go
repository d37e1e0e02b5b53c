package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"github.com/zjrosen/clothespin/internal/config"
	"github.com/zjrosen/clothespin/internal/log"
	"github.com/zjrosen/clothespin/internal/presentation"
	"github.com/zjrosen/clothespin/internal/tracing"
)

// stdinName is the file argument that reads standard input.
const stdinName = "-"

func newTokenizeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     "tokenize FILE...",
		Aliases: []string{"tok"},
		Short:   "Print the token stream of each file",
		Long: `Print the token stream of each file.

A file that stops tokenizing early is reported as file:line:col: reason
on stderr and makes the command exit non-zero. Tokens before the failure
are still printed.

Examples:
  clothespin tokenize hello.py
  clothespin tokenize --spans --format json a.py b.py
  cat hello.py | clothespin tokenize -`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTokenize,
	}
	f := c.Flags()
	f.StringP("format", "f", config.FormatText, "output format: text, json, yaml, highlight")
	f.Bool("spans", false, "print byte spans")
	f.Int("max-width", 40, "truncate token text wider than this (0 disables)")
	f.String("color", "auto", "color output: auto, always, never")
	f.IntP("jobs", "j", runtime.NumCPU(), "files tokenized in parallel")
	return c
}

// fileResult is one tokenized input, or the error that kept it from being
// read.
type fileResult struct {
	stream  presentation.Stream
	readErr error
}

func runTokenize(cmd *cobra.Command, args []string) error {
	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", jobs)
	}

	formatter, err := presentation.NewFormatter(cmd.OutOrStdout(), presentation.OptionsFromConfig(cfg.Output))
	if err != nil {
		return err
	}

	results := tokenizeFiles(cmd.Context(), cmd.InOrStdin(), args, jobs)

	stderr := cmd.ErrOrStderr()
	failed := 0
	for _, r := range results {
		if r.readErr != nil {
			fmt.Fprintln(stderr, r.readErr)
			failed++
			continue
		}
		if err := formatter.FormatStream(r.stream); err != nil {
			return fmt.Errorf("writing %s: %w", r.stream.Name, err)
		}
		if r.stream.Err != nil {
			fmt.Fprintln(stderr, presentation.DescribeError(r.stream.Name, r.stream.Source, r.stream.Err))
			if snippet := presentation.ErrorSnippet(r.stream.Source, r.stream.Err); snippet != "" {
				fmt.Fprintln(stderr, snippet)
			}
			failed++
		}
	}
	if err := formatter.Close(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to tokenize", failed, len(results))
	}
	return nil
}

// tokenizeFiles reads and tokenizes names with at most jobs files in
// flight. Results keep the order of names.
func tokenizeFiles(ctx context.Context, stdin io.Reader, names []string, jobs int) []fileResult {
	results := make([]fileResult, len(names))
	tracer := session.provider.Tracer()

	var wg sync.WaitGroup
	sem := make(chan struct{}, jobs)
	for i, name := range names {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			results[i].stream.Name = name
			src, err := readSource(stdin, name)
			if err != nil {
				results[i].readErr = err
				return
			}
			items, lexErr := tracing.TokenizeFile(ctx, tracer, name, src)
			results[i].stream = presentation.Stream{Name: name, Source: src, Items: items, Err: lexErr}
			log.Debug(log.CatCLI, "Tokenized file", "file", name, "tokens", len(items), "error", lexErr)
		}()
	}
	wg.Wait()
	return results
}

// readSource reads a file, or stdin for "-".
func readSource(stdin io.Reader, name string) (string, error) {
	var data []byte
	var err error
	if name == stdinName {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name) // #nosec G304 -- user-supplied input file
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}
