// Package head merges head declarations into a single canonical State.
//
// Every mounted component contributes one Declaration. Declarations are
// kept in a Store in mount order, where a later entry is nested deeper than
// an earlier one. Reduce folds the list into a State using one rule: the
// deepest declaration wins.
//
// Singleton values (title, title template, default title, defer, encoding,
// the change callback, the base tag and every key of the body, html and
// title attribute maps) come from the deepest declaration that sets them.
//
// Repeated tags (link, meta, noscript, script, style) are de-duplicated by
// an identity attribute chosen per category (see Policies). A tag whose
// identity was already claimed by a deeper declaration is dropped. Tags
// inside one declaration never shadow each other.
//
// Reduce is a pure function of the declaration list. Applying a State to a
// live document lives in package dom; rendering it on the server lives in
// package ssr.
package head
