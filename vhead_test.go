package vhead

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/vhead/pkg/dom"
	"github.com/vango-dev/vhead/pkg/head"
	"github.com/vango-dev/vhead/pkg/schedule"
	"github.com/vango-dev/vhead/pkg/ssr"
)

type countingObserver struct {
	mu           sync.Mutex
	reduced      int
	committed    int
	materialized int
	lastN        int
}

func (o *countingObserver) Reduced(_ *head.State, n int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reduced++
	o.lastN = n
}

func (o *countingObserver) Committed(dom.ChangeSet, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.committed++
}

func (o *countingObserver) Materialized(*ssr.State, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.materialized++
}

func TestHead_ServerBeforeMount(t *testing.T) {
	h := New(Config{SSR: true})

	if got := h.Server().Title.String(); got != `<title data-rh="true"></title>` {
		t.Errorf("title = %s", got)
	}
	if h.Client() != nil {
		t.Error("SSR head must not own a document client")
	}
	if _, ok := h.Store().(*head.RequestStore); !ok {
		t.Errorf("SSR head should default to a RequestStore, got %T", h.Store())
	}
}

func TestHead_SSRLifecycle(t *testing.T) {
	obs := &countingObserver{}
	h := New(Config{SSR: true, Observer: obs})

	layout := h.Mount(&head.Declaration{TitleTemplate: head.String("%s | Site")})
	page := h.Mount(&head.Declaration{Title: head.TitleOf("Home")})

	if got := h.Server().Title.String(); got != `<title data-rh="true">Home | Site</title>` {
		t.Errorf("after mount: %s", got)
	}

	if !page.Update(&head.Declaration{Title: head.TitleOf("About")}) {
		t.Fatal("Update should succeed while mounted")
	}
	if got := h.Server().Title.Text(); got != "About | Site" {
		t.Errorf("after update: %s", got)
	}

	page.Unmount()
	page.Unmount()
	if page.Update(&head.Declaration{}) {
		t.Error("Update after Unmount should fail")
	}
	if h.State().HasTitle {
		t.Error("no title should remain after unmount")
	}

	layout.Unmount()
	if h.Store().Len() != 0 {
		t.Errorf("store len = %d", h.Store().Len())
	}

	// mount, mount, update, unmount, unmount
	if obs.reduced != 5 || obs.materialized != 5 || obs.committed != 0 {
		t.Errorf("observer counts: reduced=%d materialized=%d committed=%d", obs.reduced, obs.materialized, obs.committed)
	}
}

func TestHead_DefaultsAreOutermost(t *testing.T) {
	h := New(Config{
		SSR: true,
		Defaults: &head.Declaration{
			DefaultTitle: head.String("Site"),
			Meta:         head.Tags(head.Attrs{"name": "description", "content": "site"}),
		},
	})

	if h.Server().Title.Text() != "Site" {
		t.Errorf("defaults should apply before any mount, got %q", h.Server().Title.Text())
	}

	h.Mount(&head.Declaration{Meta: head.Tags(head.Attrs{"name": "description", "content": "page"})})
	tags := h.Server().Meta.Tags()
	if len(tags) != 1 || tags[0]["content"] != "page" {
		t.Errorf("page declaration should win over defaults, got %v", tags)
	}
}

func TestHead_DOMDeferred(t *testing.T) {
	frames := schedule.NewManualFrames()
	obs := &countingObserver{}
	h := New(Config{Frames: frames, Observer: obs})

	h.Mount(&head.Declaration{Title: head.TitleOf("One")})
	h.Mount(&head.Declaration{Title: head.TitleOf("Two")})

	h.Client().View(func(doc *dom.Document) {
		if doc.Title() != "" {
			t.Errorf("deferred commit applied early: %q", doc.Title())
		}
	})

	frames.Flush()

	h.Client().View(func(doc *dom.Document) {
		if doc.Title() != "Two" {
			t.Errorf("Title = %q", doc.Title())
		}
	})
	if obs.committed != 1 {
		t.Errorf("committed = %d, want 1", obs.committed)
	}
	if obs.lastN != 2 {
		t.Errorf("last reduce saw %d declarations", obs.lastN)
	}
}

func TestHead_DOMImmediate(t *testing.T) {
	doc, err := dom.ParseString(`<html><head><title>Server</title></head><body></body></html>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var added head.TagNodes
	h := New(Config{Document: doc, Frames: schedule.NewManualFrames()})
	h.Mount(&head.Declaration{
		Defer: head.Bool(false),
		Link:  head.Tags(head.Attrs{"rel": "canonical", "href": "https://example.com/"}),
		OnChangeClientState: func(_ *head.State, a, _ head.TagNodes) {
			added = a
		},
	})

	if len(added[head.CategoryLink]) != 1 {
		t.Errorf("added = %v", added)
	}
	h.Client().View(func(doc *dom.Document) {
		if doc.Title() != "Server" {
			t.Errorf("title without an opinion must stay, got %q", doc.Title())
		}
	})
	if _, ok := h.Store().(*head.LiveStore); !ok {
		t.Errorf("DOM head should default to a LiveStore, got %T", h.Store())
	}
}

// pausingObserver blocks the first reduce of a state titled title until
// release is closed, signalling paused when it starts waiting.
type pausingObserver struct {
	NopObserver
	title   string
	once    sync.Once
	paused  chan struct{}
	release chan struct{}
}

func (o *pausingObserver) Reduced(state *head.State, _ int, _ time.Duration) {
	if state.Title != o.title {
		return
	}
	o.once.Do(func() {
		close(o.paused)
		select {
		case <-o.release:
		case <-time.After(time.Second):
		}
	})
}

func TestHead_OverlappingChangesApplyLatestState(t *testing.T) {
	obs := &pausingObserver{
		title:   "A",
		paused:  make(chan struct{}),
		release: make(chan struct{}),
	}
	h := New(Config{Frames: schedule.NewManualFrames(), Observer: obs})
	page := h.Mount(&head.Declaration{Title: head.TitleOf("start"), Defer: head.Bool(false)})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		page.Update(&head.Declaration{Title: head.TitleOf("A"), Defer: head.Bool(false)})
	}()
	<-obs.paused
	go func() {
		defer wg.Done()
		h.Mount(&head.Declaration{Title: head.TitleOf("B"), Defer: head.Bool(false)})
	}()
	// Give the second change time to overtake the paused one.
	time.Sleep(20 * time.Millisecond)
	close(obs.release)
	wg.Wait()

	want := h.State().Title
	if want != "B" {
		t.Fatalf("store title = %q, want B", want)
	}
	h.Client().View(func(doc *dom.Document) {
		if doc.Title() != want {
			t.Errorf("document title = %q, want %q", doc.Title(), want)
		}
	})
}

func TestHead_ConcurrentChangesEndInSync(t *testing.T) {
	h := New(Config{Frames: schedule.NewManualFrames()})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inst := h.Mount(&head.Declaration{Title: head.TitleOf("mount"), Defer: head.Bool(false)})
			inst.Update(&head.Declaration{Title: head.TitleOf(fmt.Sprintf("page %d", i)), Defer: head.Bool(false)})
			if i%2 == 0 {
				inst.Unmount()
			}
		}()
	}
	wg.Wait()

	want := h.State().Title
	h.Client().View(func(doc *dom.Document) {
		if doc.Title() != want {
			t.Errorf("document title = %q, store title = %q", doc.Title(), want)
		}
	})
}

func TestHead_Context(t *testing.T) {
	h := New(Config{SSR: true})
	ctx := WithHead(context.Background(), h)

	if FromContext(ctx) != h {
		t.Error("FromContext should return the stored head")
	}
	if FromContext(context.Background()) != nil {
		t.Error("FromContext without a head should be nil")
	}
}

func TestObservers(t *testing.T) {
	a, b := &countingObserver{}, &countingObserver{}
	obs := Observers(a, b)

	obs.Reduced(head.Reduce(nil), 0, 0)
	obs.Committed(dom.ChangeSet{}, 0)
	obs.Materialized(ssr.Empty(), 0)

	for _, o := range []*countingObserver{a, b} {
		if o.reduced != 1 || o.committed != 1 || o.materialized != 1 {
			t.Errorf("observer missed events: %+v", o)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SSR || cfg.Store == nil || cfg.Frames == nil || cfg.Logger == nil || cfg.Observer == nil || cfg.SEORules == nil {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
