package middleware

import (
	"net/http"

	"github.com/vango-dev/vhead"
)

// HeadConfig configures the request-scoped head middleware.
type HeadConfig struct {
	// Base is copied for every request. SSR is forced on and Store is
	// replaced with a fresh request store.
	Base vhead.Config

	// Observer returns the observer for one request. When nil,
	// Base.Observer is used for every request.
	Observer func(r *http.Request) vhead.Observer
}

// HeadOption configures the request-scoped head middleware.
type HeadOption func(*HeadConfig)

// WithRequestObserver sets a per-request observer factory.
func WithRequestObserver(fn func(r *http.Request) vhead.Observer) HeadOption {
	return func(c *HeadConfig) {
		c.Observer = fn
	}
}

// TracedRequests parents the spans of o to each request's context.
func TracedRequests(o *OTelObserver) HeadOption {
	return WithRequestObserver(func(r *http.Request) vhead.Observer {
		return o.ForContext(r.Context())
	})
}

// Head creates HTTP middleware that gives every request its own SSR head.
// Handlers mount declarations on vhead.FromContext(r.Context()) and read
// the materialized result with Server().
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Head(vhead.Config{Defaults: site}))
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    h := vhead.FromContext(r.Context())
//	    h.Mount(&head.Declaration{Title: head.TitleOf("Home")})
//	    h.Server().RenderPage(w, body)
//	})
func Head(base vhead.Config, opts ...HeadOption) func(http.Handler) http.Handler {
	config := HeadConfig{Base: base}
	for _, opt := range opts {
		opt(&config)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg := config.Base
			cfg.SSR = true
			cfg.Store = nil
			cfg.Document = nil
			if config.Observer != nil {
				cfg.Observer = config.Observer(r)
			}

			h := vhead.New(cfg)
			next.ServeHTTP(w, r.WithContext(vhead.WithHead(r.Context(), h)))
		})
	}
}

// FromRequest returns the head attached by Head, or nil.
func FromRequest(r *http.Request) *vhead.Head {
	return vhead.FromContext(r.Context())
}
