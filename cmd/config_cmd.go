package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/clothespin/internal/config"
)

func newConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Create, edit and inspect the config file",
		// Runs instead of the root setup so a broken config file can be
		// repaired.
		PersistentPreRun: func(*cobra.Command, []string) {
			session.configPath = resolveConfigPath()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")

	setCmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set one key in the config file, keeping its comments",
		Long: `Set one key in the config file, keeping its comments.

Keys:
  ` + strings.Join(config.Keys, "\n  "),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path in use",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), session.configPath)
		},
	}

	c.AddCommand(initCmd, setCmd, showCmd, pathCmd)
	return c
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := session.configPath
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := session.configPath
	previous, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config: %w", err)
	}

	if err := config.SetValue(path, args[0], args[1]); err != nil {
		return err
	}
	if _, _, err := loadConfig(cmd); err != nil {
		// Put the file back the way it was
		if previous == nil {
			_ = os.Remove(path)
		} else {
			_ = os.WriteFile(path, previous, 0o600)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "set %s = %s in %s\n", args[0], args[1], path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	v, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v.AllSettings()); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
