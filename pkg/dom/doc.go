// Package dom applies a head.State to a live HTML document.
//
// The document is a golang.org/x/net/html tree. Reconciliation only touches
// what the library owns: tags carrying the data-rh marker, and the html,
// body and title attributes listed in their data-rh attribute. Anything
// else in the document is left alone.
//
// Commit applies a state in one pass. Client wraps a Document with a lock
// and a frame slot so deferred states coalesce into one commit.
package dom
