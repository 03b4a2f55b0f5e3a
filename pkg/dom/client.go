package dom

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/vhead/pkg/head"
	"github.com/vango-dev/vhead/pkg/schedule"
)

// CommitHook observes every commit a Client performs.
type CommitHook func(state *head.State, cs ChangeSet, elapsed time.Duration)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithFrames sets the frame source used for deferred commits.
func WithFrames(frames schedule.Frames) ClientOption {
	return func(c *Client) {
		c.slot = schedule.NewSlot(frames)
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCommitHook registers a hook called after every commit.
func WithCommitHook(hook CommitHook) ClientOption {
	return func(c *Client) {
		c.hooks = append(c.hooks, hook)
	}
}

// Client owns a Document and applies states to it. It is safe for
// concurrent use: commits and views are serialized.
type Client struct {
	mu     sync.Mutex
	doc    *Document
	last   *head.State
	slot   *schedule.Slot
	hooks  []CommitHook
	logger *slog.Logger
}

// NewClient returns a client for doc. A nil doc starts from NewDocument.
func NewClient(doc *Document, opts ...ClientOption) *Client {
	if doc == nil {
		doc = NewDocument()
	}
	c := &Client{
		doc:    doc,
		logger: slog.Default().With("component", "dom"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.slot == nil {
		c.slot = schedule.NewSlot(nil)
	}
	return c
}

// Handle applies state. Any pending deferred commit is cancelled first.
// When state.Defer is set the commit runs on the next frame, otherwise it
// runs before Handle returns.
func (c *Client) Handle(state *head.State) {
	if state.Defer {
		c.slot.Schedule(func() { c.commit(state) })
		return
	}
	c.slot.Cancel()
	c.commit(state)
}

// Commit applies state immediately, even when it equals the last state.
func (c *Client) Commit(state *head.State) ChangeSet {
	c.slot.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commitLocked(state)
}

// Pending reports whether a deferred commit is waiting for a frame.
func (c *Client) Pending() bool {
	return c.slot.Pending()
}

// View calls fn with the document while holding the client lock.
func (c *Client) View(fn func(doc *Document)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.doc)
}

// commit skips states identical to the last applied one.
func (c *Client) commit(state *head.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last != nil && c.last.Equal(state) {
		c.logger.Debug("head unchanged, skipping commit")
		return
	}
	c.commitLocked(state)
}

func (c *Client) commitLocked(state *head.State) ChangeSet {
	start := time.Now()
	cs := Commit(c.doc, state)
	elapsed := time.Since(start)
	c.last = state

	added, removed := cs.Counts()
	c.logger.Debug("head committed",
		"added", added,
		"removed", removed,
		"title", state.Title,
		"duration", elapsed)

	for _, hook := range c.hooks {
		hook(state, cs, elapsed)
	}
	return cs
}
