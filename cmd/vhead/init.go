package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vhead/internal/config"
	"github.com/vango-dev/vhead/internal/errors"
	"github.com/vango-dev/vhead/pkg/head"
)

func (a *app) initCmd() *cobra.Command {
	var (
		useYAML bool
		force   bool
		name    string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a vhead config file",
		Long: `Init writes a vhead.json (or vhead.yaml) with site-wide defaults to
start from.

Examples:
  vhead init
  vhead init --yaml --name "My Site" site`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runInit(dir, name, useYAML, force)
		},
	}

	cmd.Flags().BoolVar(&useYAML, "yaml", false, "write vhead.yaml instead of vhead.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")
	cmd.Flags().StringVar(&name, "name", "", "site name used in the title template")

	return cmd
}

func (a *app) runInit(dir, name string, useYAML, force bool) error {
	if config.Exists(dir) && !force {
		return errors.New("H400").
			WithFile(dir).
			WithDetail("a vhead config already exists").
			WithSuggestion("Use --force to overwrite it")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("H103").WithFile(dir).Wrap(err)
	}

	if name == "" {
		name = "My Site"
	}
	cfg := starterConfig(name)

	file := config.ConfigFileName
	if useYAML {
		file = config.YAMLConfigFileName
	}
	path := filepath.Join(dir, file)
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	a.success("Created %s", path)
	a.info("Render a page with: vhead render pages/home.yaml")
	return nil
}

// starterConfig returns the config init writes.
func starterConfig(name string) *config.Config {
	cfg := config.New()
	cfg.Name = name
	cfg.Declarations = []string{"pages/*.yaml"}
	cfg.Defaults = &head.Declaration{
		TitleTemplate: head.String("%s | " + name),
		DefaultTitle:  head.String(name),
		HTMLAttributes: head.Attrs{
			"lang": "en",
		},
		Meta: head.Tags(
			head.Attrs{"charset": "utf-8"},
			head.Attrs{"name": "viewport", "content": "width=device-width, initial-scale=1"},
		),
	}
	return cfg
}
