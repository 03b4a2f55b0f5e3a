package middleware

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"golang.org/x/net/html"

	"github.com/vango-dev/vhead/pkg/dom"
	"github.com/vango-dev/vhead/pkg/head"
	"github.com/vango-dev/vhead/pkg/ssr"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestPrometheusObserver_Reduced(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := Prometheus(WithRegistry(reg))

	state := head.Reduce([]*head.Declaration{
		{Meta: head.Tags(head.Attrs{"name": "description", "content": "a"})},
		{Link: head.Tags(
			head.Attrs{"rel": "stylesheet", "href": "/a.css"},
			head.Attrs{"rel": "stylesheet", "href": "/b.css"},
		)},
	})
	p.Reduced(state, 2, time.Millisecond)
	p.Reduced(state, 2, time.Millisecond)

	if got := metricCounterValue(t, p.m.reducesTotal); got != 2 {
		t.Fatalf("reduces_total=%v, want 2", got)
	}
	if got := metricHistogramCount(t, p.m.reduceDuration); got != 2 {
		t.Fatalf("reduce_duration_seconds count=%d, want 2", got)
	}
	if got := metricGaugeValue(t, p.m.declarations); got != 2 {
		t.Fatalf("declarations=%v, want 2", got)
	}
	if got := metricGaugeValue(t, p.m.stateTags.WithLabelValues("link")); got != 2 {
		t.Fatalf("state_tags{link}=%v, want 2", got)
	}
	if got := metricGaugeValue(t, p.m.stateTags.WithLabelValues("meta")); got != 1 {
		t.Fatalf("state_tags{meta}=%v, want 1", got)
	}
}

func TestPrometheusObserver_Committed(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := Prometheus(WithRegistry(reg))

	node := &html.Node{Type: html.ElementNode, Data: "meta"}
	p.Committed(dom.ChangeSet{
		Added:   head.TagNodes{head.CategoryMeta: {node, node}},
		Removed: head.TagNodes{head.CategoryLink: {node}},
	}, time.Millisecond)
	p.Committed(dom.ChangeSet{Added: head.TagNodes{}, Removed: head.TagNodes{}}, time.Millisecond)

	if got := metricCounterValue(t, p.m.commitsTotal.WithLabelValues("changed")); got != 1 {
		t.Fatalf("commits_total{changed}=%v, want 1", got)
	}
	if got := metricCounterValue(t, p.m.commitsTotal.WithLabelValues("unchanged")); got != 1 {
		t.Fatalf("commits_total{unchanged}=%v, want 1", got)
	}
	if got := metricCounterValue(t, p.m.tagsAdded.WithLabelValues("meta")); got != 2 {
		t.Fatalf("tags_added_total{meta}=%v, want 2", got)
	}
	if got := metricCounterValue(t, p.m.tagsRemoved.WithLabelValues("link")); got != 1 {
		t.Fatalf("tags_removed_total{link}=%v, want 1", got)
	}
	if got := metricHistogramCount(t, p.m.commitDuration); got != 2 {
		t.Fatalf("commit_duration_seconds count=%d, want 2", got)
	}
}

func TestPrometheusObserver_Materialized(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := Prometheus(WithRegistry(reg))

	p.Materialized(ssr.Empty(), time.Microsecond)

	if got := metricHistogramCount(t, p.m.materializeDuration); got != 1 {
		t.Fatalf("materialize_duration_seconds count=%d, want 1", got)
	}
}

func TestPrometheus_SharesCollectorsPerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	a := Prometheus(WithRegistry(reg))
	b := Prometheus(WithRegistry(reg), WithNamespace("ignored"))
	if a.m != b.m {
		t.Fatal("expected observers on one registry to share collectors")
	}

	c := Prometheus(WithRegistry(prometheus.NewRegistry()))
	if a.m == c.m {
		t.Fatal("expected a separate registry to get its own collectors")
	}
}

func TestPrometheus_Options(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := Prometheus(
		WithRegistry(reg),
		WithNamespace("site"),
		WithSubsystem("head"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.001, 0.01}),
	)
	p.Reduced(head.Reduce(nil), 0, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	var found *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "site_head_reduces_total" {
			found = mf
		}
	}
	if found == nil {
		t.Fatal("site_head_reduces_total not registered")
	}
	labels := found.GetMetric()[0].GetLabel()
	if len(labels) != 1 || labels[0].GetName() != "env" || labels[0].GetValue() != "test" {
		t.Fatalf("const labels = %v", labels)
	}
}
