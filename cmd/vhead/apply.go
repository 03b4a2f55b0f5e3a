package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vhead/internal/declfile"
	"github.com/vango-dev/vhead/internal/errors"
	"github.com/vango-dev/vhead/pkg/dom"
	"github.com/vango-dev/vhead/pkg/head"
)

func (a *app) applyCmd() *cobra.Command {
	var (
		write  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "apply <document.html> <files...>",
		Short: "Reconcile an HTML document with declaration files",
		Long: `Apply merges declaration files and commits the result to an existing
HTML document, the way a browser client would. Managed tags the
declarations no longer name are removed; others are left alone.

The document is printed unless -w or --output is given.

Examples:
  vhead apply index.html layout.yaml pages/home.yaml
  vhead apply -w index.html pages/home.yaml
  vhead apply --output dist/index.html index.html pages/home.yaml`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := output
			if write {
				target = args[0]
			}
			return a.runApply(args[0], args[1:], target)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the document")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file")

	return cmd
}

func (a *app) runApply(docPath string, files []string, target string) error {
	f, err := os.Open(docPath)
	if err != nil {
		return errors.New("H300").WithFile(docPath).Wrap(err)
	}
	doc, err := dom.ParseDocument(f)
	f.Close()
	if err != nil {
		return errors.New("H300").WithFile(docPath).Wrap(err)
	}

	decls, err := declfile.LoadAll(files...)
	if err != nil {
		return err
	}
	if a.cfg.Defaults != nil {
		decls = append([]*head.Declaration{a.cfg.Defaults}, decls...)
	}

	state := head.ReduceWithLogger(a.logger, decls)
	cs := dom.Commit(doc, state)
	a.report(cs)

	if target == "" {
		if err := doc.Render(a.out); err != nil {
			return errors.New("H301").Wrap(err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return errors.New("H301").WithFile(target).Wrap(err)
	}
	if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
		return errors.New("H301").WithFile(target).Wrap(err)
	}
	a.success("Wrote %s", target)
	return nil
}

// report prints the tags a commit added and removed, per category.
func (a *app) report(cs dom.ChangeSet) {
	if cs.Empty() {
		a.info("No tag changes")
		return
	}
	for _, c := range head.TagCategories {
		added, removed := len(cs.Added[c]), len(cs.Removed[c])
		if added == 0 && removed == 0 {
			continue
		}
		a.info("%-8s +%d -%d", c, added, removed)
	}
}
