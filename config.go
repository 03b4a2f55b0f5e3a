package vhead

import (
	"log/slog"
	"time"

	"github.com/vango-dev/vhead/pkg/dom"
	"github.com/vango-dev/vhead/pkg/head"
	"github.com/vango-dev/vhead/pkg/schedule"
	"github.com/vango-dev/vhead/pkg/ssr"
)

// Config configures a Head.
type Config struct {
	// SSR materializes states for server rendering instead of applying
	// them to a live document. No document is touched in SSR mode.
	SSR bool

	// Store holds the mounted declarations.
	// Default: a new head.RequestStore in SSR mode, a new head.LiveStore
	// otherwise.
	Store head.Store

	// Document is the live document in DOM mode.
	// Default: dom.NewDocument().
	Document *dom.Document

	// Frames drives deferred commits in DOM mode.
	// Default: schedule.TimerFrames at schedule.DefaultFrameInterval.
	Frames schedule.Frames

	// Defaults is mounted as the outermost declaration, e.g. site-wide
	// title template and charset.
	Defaults *head.Declaration

	// SEORules decide which tags move to the priority datum in SSR mode.
	// Default: head.DefaultSEORules().
	SEORules head.SEORules

	// Logger is the structured logger.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Observer is notified of reduces, commits and materializations.
	Observer Observer
}

// DefaultConfig returns a DOM mode configuration with all defaults set.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.Logger = c.Logger.With("component", "vhead")

	if c.Store == nil {
		if c.SSR {
			c.Store = head.NewRequestStore()
		} else {
			c.Store = head.NewLiveStore()
		}
	}
	if c.Frames == nil && !c.SSR {
		c.Frames = schedule.NewTimerFrames(schedule.DefaultFrameInterval)
	}
	if c.SEORules == nil {
		c.SEORules = head.DefaultSEORules()
	}
	if c.Observer == nil {
		c.Observer = NopObserver{}
	}
	return c
}

// Observer receives timing and outcome of head updates.
type Observer interface {
	// Reduced is called after every reduce of n declarations.
	Reduced(state *head.State, n int, elapsed time.Duration)
	// Committed is called after a commit to the live document.
	Committed(cs dom.ChangeSet, elapsed time.Duration)
	// Materialized is called after a state is mapped for the server.
	Materialized(st *ssr.State, elapsed time.Duration)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) Reduced(*head.State, int, time.Duration) {}
func (NopObserver) Committed(dom.ChangeSet, time.Duration)  {}
func (NopObserver) Materialized(*ssr.State, time.Duration)  {}

// Observers fans events out to every observer in order.
func Observers(obs ...Observer) Observer {
	return multiObserver(obs)
}

type multiObserver []Observer

func (m multiObserver) Reduced(state *head.State, n int, elapsed time.Duration) {
	for _, o := range m {
		o.Reduced(state, n, elapsed)
	}
}

func (m multiObserver) Committed(cs dom.ChangeSet, elapsed time.Duration) {
	for _, o := range m {
		o.Committed(cs, elapsed)
	}
}

func (m multiObserver) Materialized(st *ssr.State, elapsed time.Duration) {
	for _, o := range m {
		o.Materialized(st, elapsed)
	}
}
