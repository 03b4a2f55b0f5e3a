// Package middleware provides production integrations for vhead.
//
// This package includes:
//   - Head, HTTP middleware that attaches a request-scoped SSR head
//   - Prometheus, an observer that records reduce, commit and
//     materialization metrics
//   - OpenTelemetry, an observer that traces the same operations
//
// # Request-scoped heads
//
// Every request gets its own vhead.Head backed by a fresh request store,
// so concurrent renders never share declarations.
//
//	r := chi.NewRouter()
//	r.Use(middleware.Head(vhead.Config{Defaults: site}))
//
// # Prometheus Metrics
//
//	obs := middleware.Prometheus(middleware.WithNamespace("site"))
//	r.Use(middleware.Head(vhead.Config{Observer: obs}))
//	r.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// Spans can be parented to the incoming request span:
//
//	tracer := middleware.OpenTelemetry(middleware.WithTracerName("site"))
//	r.Use(middleware.Head(vhead.Config{}, middleware.TracedRequests(tracer)))
//
// Combine observers with vhead.Observers.
package middleware
