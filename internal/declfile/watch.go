package declfile

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/vhead/internal/errors"
	"github.com/vango-dev/vhead/pkg/schedule"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before changes are reported.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		w.frames = schedule.NewTimerFrames(d)
	}
}

// WithFrames drives the debounce with frames, e.g. schedule.ManualFrames
// in tests.
func WithFrames(frames schedule.Frames) WatchOption {
	return func(w *Watcher) {
		w.frames = frames
	}
}

// WithLogger sets the watcher logger.
func WithLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher reports changes to a fixed set of declaration files. It
// watches their directories so that files replaced by editors (write to
// temp, rename) keep being tracked.
type Watcher struct {
	fs     *fsnotify.Watcher
	files  map[string]bool
	frames schedule.Frames
	slot   *schedule.Slot
	logger *slog.Logger

	mu      sync.Mutex
	changed map[string]bool
}

// NewWatcher starts watching files.
func NewWatcher(files []string, opts ...WatchOption) (*Watcher, error) {
	w := &Watcher{
		files:   make(map[string]bool, len(files)),
		logger:  slog.Default(),
		changed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.frames == nil {
		w.frames = schedule.NewTimerFrames(DefaultDebounce)
	}
	w.slot = schedule.NewSlot(w.frames)
	w.logger = w.logger.With("component", "declfile")

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.New("H204").Wrap(err)
	}
	w.fs = fs

	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fs.Close()
			return nil, errors.New("H204").WithFile(f).Wrap(err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, errors.New("H204").WithFile(dir).Wrap(err)
		}
	}
	return w, nil
}

// Run delivers changed files, sorted, to fn until ctx is done. fn runs on
// the debounce goroutine; calls never overlap.
func (w *Watcher) Run(ctx context.Context, fn func(changed []string)) error {
	var fnMu sync.Mutex
	flush := func() {
		w.mu.Lock()
		changed := make([]string, 0, len(w.changed))
		for f := range w.changed {
			changed = append(changed, f)
		}
		clear(w.changed)
		w.mu.Unlock()

		if len(changed) == 0 {
			return
		}
		slices.Sort(changed)

		fnMu.Lock()
		defer fnMu.Unlock()
		fn(changed)
	}

	for {
		select {
		case <-ctx.Done():
			w.slot.Cancel()
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.Observe(event) {
				w.slot.Schedule(flush)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// Observe records event and reports whether it concerns a watched file.
func (w *Watcher) Observe(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil || !w.files[abs] {
		return false
	}

	w.logger.Debug("declaration file changed", "file", abs, "op", event.Op.String())
	w.mu.Lock()
	w.changed[abs] = true
	w.mu.Unlock()
	return true
}

// Files returns the watched files as absolute paths, sorted.
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.slot.Cancel()
	return w.fs.Close()
}
