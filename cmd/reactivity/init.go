package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactivity/internal/config"
	"github.com/vango-dev/reactivity/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		useYAML bool
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Long: `Write reactivity.json (or reactivity.yaml with --yaml) holding the
default settings, ready to be edited and picked up by 'reactivity inspect'.

Examples:
  reactivity init
  reactivity init ./tools --yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd.OutOrStdout(), dir, useYAML, force)
		},
	}

	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Write reactivity.yaml instead of reactivity.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")

	return cmd
}

func runInit(out io.Writer, dir string, useYAML, force bool) error {
	if config.Exists(dir) && !force {
		return errors.New("R141").
			WithDetail("A configuration file already exists in " + dir).
			WithSuggestion("Pass --force to overwrite it")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.FromError(err, "R120")
	}

	name := config.ConfigFileName
	if useYAML {
		name = config.YAMLConfigFileName
	}

	cfg := config.New()
	if err := cfg.SaveTo(filepath.Join(dir, name)); err != nil {
		return err
	}

	success(out, "Created %s", cfg.Path())
	info(out, "Inspector will listen on %s", cfg.InspectorURL())
	fmt.Fprintln(out)
	return nil
}
