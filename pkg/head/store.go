package head

import (
	"sync"

	"github.com/google/uuid"
)

// Handle identifies one mounted declaration.
type Handle string

// NewHandle returns a fresh handle.
func NewHandle() Handle {
	return Handle(uuid.NewString())
}

// Store is the ordered registry of mounted declarations. Order is mount
// order; a later entry is nested deeper.
type Store interface {
	// Add appends d and returns its handle.
	Add(d *Declaration) Handle
	// Replace swaps the declaration behind h, keeping its position.
	Replace(h Handle, d *Declaration) bool
	// Remove drops the declaration behind h.
	Remove(h Handle) bool
	// Get returns a copy of the declarations in mount order.
	Get() []*Declaration
	Len() int
	Clear()
}

type entry struct {
	handle Handle
	decl   *Declaration
}

// RequestStore is a Store owned by a single render. It is not safe for
// concurrent use.
type RequestStore struct {
	entries []entry
}

// NewRequestStore returns an empty per-render store.
func NewRequestStore() *RequestStore {
	return &RequestStore{}
}

func (s *RequestStore) Add(d *Declaration) Handle {
	h := NewHandle()
	s.entries = append(s.entries, entry{handle: h, decl: d})
	return h
}

func (s *RequestStore) Replace(h Handle, d *Declaration) bool {
	i := s.index(h)
	if i < 0 {
		return false
	}
	s.entries[i].decl = d
	return true
}

func (s *RequestStore) Remove(h Handle) bool {
	i := s.index(h)
	if i < 0 {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

func (s *RequestStore) Get() []*Declaration {
	out := make([]*Declaration, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.decl
	}
	return out
}

func (s *RequestStore) Len() int { return len(s.entries) }

func (s *RequestStore) Clear() { s.entries = nil }

func (s *RequestStore) index(h Handle) int {
	for i, e := range s.entries {
		if e.handle == h {
			return i
		}
	}
	return -1
}

// LiveStore is the Store behind a live document. It is safe for concurrent
// use. Create one per document and pass it where it is needed.
type LiveStore struct {
	mu    sync.RWMutex
	inner RequestStore
}

// NewLiveStore returns an empty live store.
func NewLiveStore() *LiveStore {
	return &LiveStore{}
}

func (s *LiveStore) Add(d *Declaration) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Add(d)
}

func (s *LiveStore) Replace(h Handle, d *Declaration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Replace(h, d)
}

func (s *LiveStore) Remove(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Remove(h)
}

func (s *LiveStore) Get() []*Declaration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Get()
}

func (s *LiveStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Len()
}

func (s *LiveStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Clear()
}

var (
	_ Store = (*RequestStore)(nil)
	_ Store = (*LiveStore)(nil)
)
