package vhead

import "context"

type contextKey struct{}

// WithHead returns a copy of ctx carrying h.
func WithHead(ctx context.Context, h *Head) context.Context {
	return context.WithValue(ctx, contextKey{}, h)
}

// FromContext returns the Head carried by ctx, or nil.
func FromContext(ctx context.Context) *Head {
	h, _ := ctx.Value(contextKey{}).(*Head)
	return h
}
