package dom

import (
	"github.com/vango-dev/vhead/pkg/head"
)

// ChangeSet lists the nodes one commit added and removed, by category.
// Categories without changes are absent.
type ChangeSet struct {
	Added   head.TagNodes
	Removed head.TagNodes
}

// Empty reports whether the commit changed no tags.
func (cs ChangeSet) Empty() bool {
	return len(cs.Added) == 0 && len(cs.Removed) == 0
}

// Counts returns the number of added and removed nodes.
func (cs ChangeSet) Counts() (added, removed int) {
	for _, nodes := range cs.Added {
		added += len(nodes)
	}
	for _, nodes := range cs.Removed {
		removed += len(nodes)
	}
	return added, removed
}

// Commit applies state to doc and notifies state.OnChangeClientState once.
//
// Order: body attributes, html attributes, title, title attributes, then
// the base, link, meta, noscript, script and style tags.
func Commit(doc *Document, state *head.State) ChangeSet {
	SyncAttributes(doc.Body(), state.BodyAttributes)
	SyncAttributes(doc.HTML(), state.HTMLAttributes)

	if state.HasTitle && doc.Title() != state.Title {
		doc.SetTitle(state.Title)
	}
	SyncAttributes(doc.TitleElement(), state.TitleAttributes)

	cs := ChangeSet{
		Added:   head.TagNodes{},
		Removed: head.TagNodes{},
	}
	for _, c := range head.TagCategories {
		update := SyncTags(doc, c, state.Tags(c))
		if len(update.Added) > 0 {
			cs.Added[c] = update.Added
		}
		if len(update.Removed) > 0 {
			cs.Removed[c] = update.Removed
		}
	}

	if state.OnChangeClientState != nil {
		state.OnChangeClientState(state, cs.Added, cs.Removed)
	}
	return cs
}
