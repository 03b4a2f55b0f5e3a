// Package vhead manages document head content declared by nested
// components.
//
// Each component mounts a head.Declaration on a Head. Whenever a
// declaration is mounted, updated or unmounted the Head reduces every
// mounted declaration into a head.State and routes it:
//
//   - in DOM mode the state is committed to a live document (package dom),
//     on the next frame unless the state disables deferral;
//   - in SSR mode the state is materialized for server rendering
//     (package ssr) and read back with Head.Server.
//
// Usage:
//
//	h := vhead.New(vhead.Config{SSR: true})
//	layout := h.Mount(&head.Declaration{TitleTemplate: head.String("%s | Site")})
//	page := h.Mount(&head.Declaration{Title: head.TitleOf("Home")})
//	h.Server().Title.String() // <title data-rh="true">Home | Site</title>
//
// Later mounts are nested deeper and win over earlier ones.
package vhead

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/vhead/pkg/dom"
	"github.com/vango-dev/vhead/pkg/head"
	"github.com/vango-dev/vhead/pkg/ssr"
)

// Head owns a declaration store and dispatches every change to a live
// document or to the server materializer. It is safe for concurrent use
// when its store is. A change callback running synchronously inside a
// commit must not mount, update or unmount on the same Head.
type Head struct {
	config Config
	store  head.Store
	client *dom.Client
	logger *slog.Logger

	// emitMu orders emits: the last store change is the last state applied.
	emitMu sync.Mutex

	mu     sync.Mutex
	server *ssr.State
}

// New creates a Head. When cfg.Defaults is set it is mounted first, as
// the outermost declaration.
func New(cfg Config) *Head {
	cfg = cfg.withDefaults()

	h := &Head{
		config: cfg,
		store:  cfg.Store,
		logger: cfg.Logger,
	}

	if !cfg.SSR {
		h.client = dom.NewClient(cfg.Document,
			dom.WithFrames(cfg.Frames),
			dom.WithLogger(cfg.Logger),
			dom.WithCommitHook(func(_ *head.State, cs dom.ChangeSet, elapsed time.Duration) {
				cfg.Observer.Committed(cs, elapsed)
			}),
		)
	}

	if cfg.Defaults != nil {
		h.Mount(cfg.Defaults)
	}
	return h
}

// Mount adds d as the deepest declaration and applies the new state.
func (h *Head) Mount(d *head.Declaration) *Instance {
	handle := h.store.Add(d)
	h.emit()
	return &Instance{head: h, handle: handle}
}

// State reduces the mounted declarations without applying them.
func (h *Head) State() *head.State {
	return head.ReduceWithLogger(h.logger, h.store.Get())
}

// Server returns the latest materialized server state. Before anything is
// mounted, and in DOM mode, it is ssr.Empty().
func (h *Head) Server() *ssr.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.server == nil {
		return ssr.Empty()
	}
	return h.server
}

// Client returns the live document client. It is nil in SSR mode.
func (h *Head) Client() *dom.Client { return h.client }

// Store returns the declaration store.
func (h *Head) Store() head.Store { return h.store }

// SSR reports whether the head materializes for server rendering.
func (h *Head) SSR() bool { return h.config.SSR }

// emit reduces the store and routes the state.
func (h *Head) emit() {
	h.emitMu.Lock()
	defer h.emitMu.Unlock()

	decls := h.store.Get()

	start := time.Now()
	state := head.ReduceWithLogger(h.logger, decls)
	h.config.Observer.Reduced(state, len(decls), time.Since(start))

	if !h.config.SSR {
		h.client.Handle(state)
		return
	}

	start = time.Now()
	st := ssr.Map(state, ssr.WithSEORules(h.config.SEORules))
	h.config.Observer.Materialized(st, time.Since(start))

	h.mu.Lock()
	h.server = st
	h.mu.Unlock()
}

// Instance is one mounted declaration.
type Instance struct {
	head   *Head
	handle head.Handle

	mu sync.Mutex
}

// Handle returns the store handle of the instance.
func (i *Instance) Handle() head.Handle { return i.handle }

// Update replaces the declaration, keeping its nesting position. It
// reports false once the instance is unmounted.
func (i *Instance) Update(d *head.Declaration) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.head.store.Replace(i.handle, d) {
		return false
	}
	i.head.emit()
	return true
}

// Unmount removes the declaration. Unmounting twice is a no-op.
func (i *Instance) Unmount() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.head.store.Remove(i.handle) {
		return
	}
	i.head.emit()
}
