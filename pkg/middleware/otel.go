package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vhead/pkg/dom"
	"github.com/vango-dev/vhead/pkg/head"
	"github.com/vango-dev/vhead/pkg/ssr"
)

// Default tracer name.
const defaultTracerName = "vhead"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "vhead").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: otel.GetTracerProvider()
	TracerProvider trace.TracerProvider

	// IncludeCategories adds per-category tag counts to spans.
	// Enabled by default.
	IncludeCategories bool

	// AttributeExtractor adds custom attributes to reduce spans.
	AttributeExtractor func(state *head.State) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeCategories enables or disables per-category span attributes.
func WithIncludeCategories(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeCategories = include
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(state *head.State) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:        defaultTracerName,
		IncludeCategories: true,
	}
}

// OTelObserver emits one span per reduce, commit and materialization.
// It implements vhead.Observer.
type OTelObserver struct {
	config OTelConfig
	ctx    context.Context
}

// OpenTelemetry creates an observer that traces head activity.
//
// Span timestamps are reconstructed from the reported duration, so each
// span covers the operation it describes. Spans are parented to the
// context set with ForContext.
//
// Example:
//
//	h := vhead.New(vhead.Config{
//	    Observer: middleware.OpenTelemetry(middleware.WithTracerName("site")),
//	})
func OpenTelemetry(opts ...OTelOption) *OTelObserver {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	config.tracer = config.TracerProvider.Tracer(config.TracerName)

	return &OTelObserver{config: config, ctx: context.Background()}
}

// ForContext returns a copy of o whose spans are children of the span in
// ctx.
func (o *OTelObserver) ForContext(ctx context.Context) *OTelObserver {
	cp := *o
	cp.ctx = ctx
	return &cp
}

// Reduced traces one reduction.
func (o *OTelObserver) Reduced(state *head.State, n int, elapsed time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Int("vhead.declarations", n),
		attribute.Bool("vhead.has_title", state.HasTitle),
		attribute.Bool("vhead.defer", state.Defer),
	}
	if o.config.IncludeCategories {
		for _, c := range head.TagCategories {
			attrs = append(attrs, attribute.Int("vhead.tags."+string(c), len(state.Tags(c))))
		}
	}
	if o.config.AttributeExtractor != nil {
		attrs = append(attrs, o.config.AttributeExtractor(state)...)
	}
	o.record("vhead.reduce", elapsed, attrs)
}

// Committed traces one commit to the live document.
func (o *OTelObserver) Committed(cs dom.ChangeSet, elapsed time.Duration) {
	added, removed := cs.Counts()
	attrs := []attribute.KeyValue{
		attribute.Int("vhead.tags_added", added),
		attribute.Int("vhead.tags_removed", removed),
	}
	if o.config.IncludeCategories {
		for c, nodes := range cs.Added {
			attrs = append(attrs, attribute.Int("vhead.added."+string(c), len(nodes)))
		}
		for c, nodes := range cs.Removed {
			attrs = append(attrs, attribute.Int("vhead.removed."+string(c), len(nodes)))
		}
	}
	o.record("vhead.commit", elapsed, attrs)
}

// Materialized traces one server state mapping.
func (o *OTelObserver) Materialized(st *ssr.State, elapsed time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Int("vhead.priority_tags", st.Priority.Len()),
	}
	o.record("vhead.materialize", elapsed, attrs)
}

func (o *OTelObserver) record(name string, elapsed time.Duration, attrs []attribute.KeyValue) {
	end := time.Now()
	_, span := o.config.tracer.Start(o.ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(end.Add(-elapsed)),
	)
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(end))
}
