package observability_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tailored-agentic-units/sealstore/observability"
)

func TestPrometheusObserver_CountsByTypeAndLevel(t *testing.T) {
	reg := prometheus.NewRegistry()

	obs, err := observability.NewPrometheusObserver(reg)
	if err != nil {
		t.Fatalf("NewPrometheusObserver failed: %v", err)
	}

	ctx := context.Background()
	obs.OnEvent(ctx, observability.Event{Type: "store.update.complete", Level: observability.LevelInfo})
	obs.OnEvent(ctx, observability.Event{Type: "store.update.complete", Level: observability.LevelInfo})
	obs.OnEvent(ctx, observability.Event{Type: "store.update.rejected", Level: observability.LevelWarning})

	if got := testutil.ToFloat64(obs.Counter().WithLabelValues("store.update.complete", "INFO")); got != 2 {
		t.Errorf("complete count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(obs.Counter().WithLabelValues("store.update.rejected", "WARN")); got != 1 {
		t.Errorf("rejected count = %v, want 1", got)
	}
}

func TestPrometheusObserver_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := observability.NewPrometheusObserver(reg)
	if err != nil {
		t.Fatalf("first NewPrometheusObserver failed: %v", err)
	}
	second, err := observability.NewPrometheusObserver(reg)
	if err != nil {
		t.Fatalf("second NewPrometheusObserver failed: %v", err)
	}

	first.OnEvent(context.Background(), observability.Event{Type: "store.create", Level: observability.LevelInfo})
	second.OnEvent(context.Background(), observability.Event{Type: "store.create", Level: observability.LevelInfo})

	if got := testutil.ToFloat64(first.Counter().WithLabelValues("store.create", "INFO")); got != 2 {
		t.Errorf("shared count = %v, want 2", got)
	}
}
