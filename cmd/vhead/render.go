package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vhead"
	"github.com/vango-dev/vhead/internal/declfile"
	"github.com/vango-dev/vhead/internal/errors"
	"github.com/vango-dev/vhead/pkg/vdom"
)

// Output formats of the render command.
const (
	formatHead = "head"
	formatPage = "page"
)

type renderOptions struct {
	layout []string
	format string
	body   string
	output string
}

func (a *app) renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render the head of one or more pages",
		Long: `Render merges declaration files into one head and prints the markup.

Every file is rendered as its own page. Layout files are mounted before
each page, outermost first. Without files, the declarations listed in
the config are rendered.

Examples:
  vhead render pages/home.yaml
  vhead render --layout layout.yaml pages/*.yaml
  vhead render --format page --body index.html pages/home.json
  vhead render --output dist pages/*.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(args, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.layout, "layout", "l", nil, "declaration files mounted before every page")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatHead, "output format (head, page)")
	cmd.Flags().StringVar(&opts.body, "body", "", "HTML file whose body is used with --format page")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write one file per page into this directory")

	return cmd
}

func (a *app) runRender(files []string, opts renderOptions) error {
	if opts.format != formatHead && opts.format != formatPage {
		return errors.New("H401").WithDetail(fmt.Sprintf("unknown format %q, want head or page", opts.format))
	}

	if len(files) == 0 {
		configured, err := a.cfg.DeclarationFiles()
		if err != nil {
			return err
		}
		files = configured
	}
	if len(files) == 0 {
		return errors.New("H400").
			WithDetail("no declaration files given").
			WithSuggestion("Pass files, or list them under \"declarations\" in vhead.json")
	}

	var body *vdom.VNode
	if opts.format == formatPage {
		bodyFile := opts.body
		if bodyFile == "" {
			bodyFile = a.cfg.Resolve(a.cfg.Preview.Body)
		}
		var err error
		if body, err = loadBody(bodyFile); err != nil {
			return err
		}
	}

	results := make([][]byte, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			out, err := a.renderPage(append(opts.layout[:len(opts.layout):len(opts.layout)], file), opts.format, body)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.output != "" {
		return a.writeRendered(opts.output, files, results, opts.format)
	}

	for i, file := range files {
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(a.out)
			}
			fmt.Fprintf(a.out, "==> %s <==\n", file)
		}
		if _, err := a.out.Write(results[i]); err != nil {
			return errors.New("H302").Wrap(err)
		}
	}
	return nil
}

// renderPage mounts the declarations of files, outermost first, on a
// fresh SSR head and renders the result.
func (a *app) renderPage(files []string, format string, body *vdom.VNode) ([]byte, error) {
	decls, err := declfile.LoadAll(files...)
	if err != nil {
		return nil, err
	}

	h := vhead.New(a.headConfig())
	for _, d := range decls {
		h.Mount(d)
	}
	a.logger.Debug("rendered page", "file", files[len(files)-1], "declarations", len(decls))

	var buf bytes.Buffer
	st := h.Server()
	if format == formatPage {
		err = st.RenderPage(&buf, body)
	} else {
		err = st.WriteHead(&buf)
	}
	if err != nil {
		return nil, errors.New("H302").WithFile(files[len(files)-1]).Wrap(err)
	}
	return buf.Bytes(), nil
}

func (a *app) writeRendered(dir string, files []string, results [][]byte, format string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("H301").WithFile(dir).Wrap(err)
	}

	ext := ".head.html"
	if format == formatPage {
		ext = ".html"
	}
	for i, name := range uniqueNames(files) {
		path := filepath.Join(dir, name+ext)
		if err := os.WriteFile(path, results[i], 0644); err != nil {
			return errors.New("H301").WithFile(path).Wrap(err)
		}
		a.success("Wrote %s", path)
	}
	return nil
}
