package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/clothespin/internal/lexer"
	"github.com/zjrosen/clothespin/internal/log"
	"github.com/zjrosen/clothespin/internal/presentation"
	"github.com/zjrosen/clothespin/internal/tokendiff"
	"github.com/zjrosen/clothespin/internal/tracing"
)

// errStreamsDiffer is returned by diff --exit-code when the token streams
// differ.
var errStreamsDiffer = errors.New("token streams differ")

func newDiffCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare the token streams of two files",
		Long: `Compare the token streams of two files.

Each line shows a token and its span in its own file, prefixed with
"- " when only OLD has it, "+ " when only NEW has it and two spaces when
both do. A file that stops tokenizing early is compared up to the stop.

Examples:
  clothespin diff before.py after.py
  clothespin diff --ignore-space --exit-code before.py after.py`,
		Args: cobra.ExactArgs(2),
		RunE: runDiff,
	}
	c.Flags().Bool("ignore-space", false, "ignore inline whitespace and carriage returns")
	c.Flags().Bool("exit-code", false, "exit non-zero when the token streams differ")
	c.Flags().String("color", "auto", "color output: auto, always, never")
	return c
}

func runDiff(cmd *cobra.Command, args []string) error {
	ignoreSpace, _ := cmd.Flags().GetBool("ignore-space")
	exitCode, _ := cmd.Flags().GetBool("exit-code")

	var sides [2][]lexer.Item
	for i, name := range args {
		src, err := readSource(cmd.InOrStdin(), name)
		if err != nil {
			return err
		}
		items, lexErr := lexer.Tokenize(src)
		if lexErr != nil {
			msg := presentation.DescribeError(name, src, lexErr)
			log.Warn(log.CatLexer, "Diffing partial token stream", "file", name, "error", msg)
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
		}
		sides[i] = items
	}

	_, span := session.provider.Tracer().Start(cmd.Context(), tracing.SpanDiff)
	edits := tokendiff.Diff(sides[0], sides[1], tokendiff.Options{IgnoreSpace: ignoreSpace})
	stats := tokendiff.Summarize(edits)
	span.SetAttributes(
		attribute.Int("diff.equal", stats.Equal),
		attribute.Int("diff.deleted", stats.Deleted),
		attribute.Int("diff.inserted", stats.Inserted),
	)
	span.End()

	out := cmd.OutOrStdout()
	if err := tokendiff.Render(out, edits, cfg.Output.Color == "always"); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d equal, %d deleted, %d inserted\n", stats.Equal, stats.Deleted, stats.Inserted)

	if exitCode && stats.Changed() {
		return errStreamsDiffer
	}
	return nil
}
