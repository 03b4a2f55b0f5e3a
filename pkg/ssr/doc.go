// Package ssr materializes a head.State for server rendering.
//
// Map turns a state into one datum per category. Each datum renders either
// as markup nodes (pkg/vdom), as an HTML string, or as a templ component:
//
//	st := ssr.Map(head.Reduce(store.Get()))
//	st.WriteHead(w)
//	fmt.Fprintf(w, "<html %s>", st.HTMLAttributes)
//
// Every rendered element carries data-rh="true" so a client reconciler
// recognizes it as library-owned.
package ssr
