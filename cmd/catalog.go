package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/clothespin/internal/lexer"
	"github.com/zjrosen/clothespin/internal/markdown"
)

func newCatalogCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "catalog",
		Short: "Print every token kind with its spelling and class",
		Args:  cobra.NoArgs,
		RunE:  runCatalog,
	}
	c.Flags().Bool("markdown", false, "print the markdown source instead of rendering it")
	c.Flags().Int("width", 100, "word wrap width")
	c.Flags().String("color", "auto", "color output: auto, always, never")
	return c
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	doc := catalogMarkdown()
	if raw, _ := cmd.Flags().GetBool("markdown"); raw {
		_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	r, err := markdown.New(width, cfg.Output.Color)
	if err != nil {
		return err
	}
	out, err := r.Render(doc)
	if err != nil {
		return fmt.Errorf("rendering catalog: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

// catalogMarkdown documents every token kind as a markdown table.
func catalogMarkdown() string {
	kinds := lexer.Kinds()
	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		rows = append(rows, []string{k.String(), markdown.Code(k.Lexeme()), k.Class().String(), kindNotes(k)})
	}
	return "# Token catalogue\n\n" +
		"Fixed spellings match longest first; among equal lengths the earlier rule wins.\n\n" +
		markdown.Table([]string{"Kind", "Lexeme", "Class", "Notes"}, rows)
}

func kindNotes(k lexer.Kind) string {
	switch {
	case k.Reserved():
		return "reserved, never produced"
	case k == lexer.TokenIndentSpace:
		return "width, tabs round up to 8"
	case k == lexer.TokenEOF:
		return "end of input or first failure"
	case k.HasText():
		return "carries text"
	}
	return ""
}
