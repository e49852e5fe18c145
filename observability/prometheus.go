package observability

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver counts events by type and severity.
type PrometheusObserver struct {
	events *prometheus.CounterVec
}

// NewPrometheusObserver creates a PrometheusObserver and registers its
// collector with reg. A nil reg uses prometheus.DefaultRegisterer. Observers
// created against the same registry share one collector.
func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sealstore",
		Name:      "events_total",
		Help:      "Store events by type and severity.",
	}, []string{"type", "level"})

	if err := reg.Register(events); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		events = existing
	}
	return &PrometheusObserver{events: events}, nil
}

func (o *PrometheusObserver) OnEvent(ctx context.Context, event Event) {
	o.events.WithLabelValues(string(event.Type), event.Level.String()).Inc()
}

// Counter exposes the underlying collector, mainly for tests.
func (o *PrometheusObserver) Counter() *prometheus.CounterVec {
	return o.events
}
