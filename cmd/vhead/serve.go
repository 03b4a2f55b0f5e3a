package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vhead"
	"github.com/vango-dev/vhead/internal/declfile"
	"github.com/vango-dev/vhead/internal/errors"
	"github.com/vango-dev/vhead/pkg/head"
	"github.com/vango-dev/vhead/pkg/live"
	"github.com/vango-dev/vhead/pkg/middleware"
	"github.com/vango-dev/vhead/pkg/vdom"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var layout []string

	cmd := &cobra.Command{
		Use:   "serve [files...]",
		Short: "Preview pages with live head updates",
		Long: `Serve renders every declaration file as a page and keeps connected
browsers up to date while the files change.

  /            lists the pages
  /p/{name}    renders one page
  /metrics     exposes Prometheus metrics

Examples:
  vhead serve pages/*.yaml
  vhead serve --layout layout.yaml --port 8080 pages/*.yaml
  vhead serve --watch=false pages/home.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context(), args, layout)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&layout, "layout", "l", nil, "declaration files mounted before every page")
	flags.IntP("port", "p", 0, "port to serve on (default from config)")
	flags.StringP("host", "H", "", "host to bind to (default from config)")
	flags.Bool("watch", true, "reload pages when their files change")
	flags.String("debounce", "", "delay between a change and the reload (e.g. 100ms)")
	_ = a.v.BindPFlag("preview.port", flags.Lookup("port"))
	_ = a.v.BindPFlag("preview.host", flags.Lookup("host"))
	_ = a.v.BindPFlag("preview.watch", flags.Lookup("watch"))
	_ = a.v.BindPFlag("preview.debounce", flags.Lookup("debounce"))

	return cmd
}

func (a *app) runServe(ctx context.Context, files, layout []string) error {
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

	p, err := a.newPreview(files, layout, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer p.closeHubs()

	var w *declfile.Watcher
	if a.cfg.Preview.Watch {
		w, err = declfile.NewWatcher(p.files(),
			declfile.WithDebounce(a.cfg.DebounceDuration()),
			declfile.WithLogger(a.logger),
		)
		if err != nil {
			return err
		}
		defer w.Close()
		a.info("Watching %d file(s)", len(w.Files()))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              a.cfg.Address(),
		Handler:           p.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.success("Serving %d page(s) at %s", len(p.order), a.cfg.URL())
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("H402").Wrap(err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		p.closeHubs()
		return srv.Shutdown(shutdownCtx)
	})

	if w != nil {
		g.Go(func() error {
			err := w.Run(ctx, p.reload)
			if stderrors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}

// preview serves rendered pages and pushes reloads to their browsers.
type preview struct {
	app     *app
	layout  []string
	body    *vdom.VNode
	metrics *prometheus.Registry
	head    func(http.Handler) http.Handler

	mu    sync.RWMutex
	pages map[string]*previewPage
	order []string
}

// previewPage is one page: the layout files plus its own file.
type previewPage struct {
	name  string
	file  string
	hub   *live.Hub
	decls []*head.Declaration
	err   error
}

func (a *app) newPreview(files, layout []string, reg *prometheus.Registry) (*preview, error) {
	body, err := loadBody(a.cfg.Resolve(a.cfg.Preview.Body))
	if err != nil {
		return nil, err
	}

	p := &preview{
		app:     a,
		layout:  layout,
		body:    body,
		metrics: reg,
		pages:   make(map[string]*previewPage),
	}

	cfg := a.headConfig()
	cfg.Observer = middleware.Prometheus(middleware.WithRegistry(reg))
	p.head = middleware.Head(cfg)

	for i, name := range uniqueNames(files) {
		page := &previewPage{
			name: name,
			file: files[i],
			hub:  live.NewHub(live.WithLogger(a.logger)),
		}
		page.decls, page.err = declfile.LoadAll(p.paths(page)...)
		if page.err != nil {
			a.logger.Warn("page failed to load", "page", name, "error", page.err)
		}
		p.pages[name] = page
		p.order = append(p.order, name)
	}
	return p, nil
}

// paths returns the declaration files of page, outermost first.
func (p *preview) paths(page *previewPage) []string {
	paths := make([]string, 0, len(p.layout)+1)
	paths = append(paths, p.layout...)
	return append(paths, page.file)
}

// files returns every file any page depends on.
func (p *preview) files() []string {
	seen := make(map[string]bool)
	var files []string
	for _, f := range p.layout {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	for _, name := range p.order {
		if f := p.pages[name].file; !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	return files
}

func (p *preview) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", p.handleIndex)
	r.Handle("/metrics", promhttp.HandlerFor(p.metrics, promhttp.HandlerOpts{}))
	r.Route("/p/{name}", func(r chi.Router) {
		r.With(p.head).Get("/", p.handlePage)
		r.Get("/live", p.handleLive)
	})
	return r
}

func (p *preview) page(name string) (previewPage, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	page, ok := p.pages[name]
	if !ok {
		return previewPage{}, false
	}
	return *page, true
}

func (p *preview) handleIndex(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<!DOCTYPE html>\n<html>\n<head><title>vhead preview</title></head>\n<body>\n<ul>\n")
	for _, name := range p.order {
		page := p.pages[name]
		status := ""
		if page.err != nil {
			status = " (error)"
		}
		fmt.Fprintf(w, "<li><a href=\"/p/%s\">%s</a> <small>%s%s</small></li>\n",
			html.EscapeString(name), html.EscapeString(name), html.EscapeString(page.file), status)
	}
	fmt.Fprint(w, "</ul>\n</body>\n</html>\n")
}

func (p *preview) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	page, ok := p.page(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if page.err != nil {
		http.Error(w, errors.FromError(page.err, "H201").FormatCompact(), http.StatusInternalServerError)
		return
	}

	h := middleware.FromRequest(r)
	for _, d := range page.decls {
		h.Mount(d)
	}

	script := vdom.Raw(live.ClientScript("/p/" + name + "/live"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Server().RenderPage(w, p.body, script); err != nil {
		p.app.logger.Error("render page", "page", name, "error", err)
	}
}

func (p *preview) handleLive(w http.ResponseWriter, r *http.Request) {
	page, ok := p.page(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	page.hub.ServeHTTP(w, r)
}

// reload reloads every page that depends on a changed file and pushes
// the new head, or the load error, to its browsers.
func (p *preview) reload(changed []string) {
	touched := make(map[string]bool, len(changed))
	for _, f := range changed {
		touched[f] = true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, name := range p.order {
		page := p.pages[name]
		paths := p.paths(page)
		if !dependsOn(paths, touched) {
			continue
		}

		decls, err := declfile.LoadAll(paths...)
		if err != nil {
			p.app.logger.Warn("page failed to reload", "page", name, "error", err)
			page.err = err
			page.hub.NotifyError(page.file, err)
			continue
		}

		hadErr := page.err != nil
		page.decls, page.err = decls, nil
		if hadErr {
			page.hub.ClearError()
		}

		h := vhead.New(p.app.headConfig())
		for _, d := range decls {
			h.Mount(d)
		}
		page.hub.Publish(h.Server(), page.file)
		p.app.logger.Info("page reloaded", "page", name, "clients", page.hub.ClientCount())
	}
}

func dependsOn(paths []string, touched map[string]bool) bool {
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err == nil && touched[abs] {
			return true
		}
	}
	return false
}

func (p *preview) closeHubs() {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, page := range p.pages {
		page.hub.Close()
	}
}
