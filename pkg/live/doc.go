// Package live pushes head updates to browsers over WebSocket.
//
// A Hub is an http.Handler. Mount it, inject ClientScript into served
// pages and call Publish whenever the head changes:
//
//	hub := live.NewHub()
//	r.Handle(live.Path, hub)
//	hub.Publish(h.Server(), "pages/home.yaml")
package live
