// Package observability carries store lifecycle events to logs, metrics, and
// traces. Level values align with OpenTelemetry SeverityNumbers so events map
// onto OTel log records without translation.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Level is an event severity on the OTel SeverityNumber scale (1-24).
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// severity ranges, ordered by upper bound.
var severities = []struct {
	max  Level
	text string
	slog slog.Level
}{
	{4, "TRACE", slog.LevelDebug},
	{8, "DEBUG", slog.LevelDebug},
	{12, "INFO", slog.LevelInfo},
	{16, "WARN", slog.LevelWarn},
	{20, "ERROR", slog.LevelError},
}

// String returns the OTel severity text for the level.
func (l Level) String() string {
	for _, s := range severities {
		if l <= s.max {
			return s.text
		}
	}
	return "FATAL"
}

// SlogLevel maps the level onto slog's scale.
func (l Level) SlogLevel() slog.Level {
	for _, s := range severities {
		if l <= s.max {
			return s.slog
		}
	}
	return slog.LevelError
}

// ParseLevel accepts the names used in configuration: verbose, info,
// warning, and error. Matching is case-insensitive.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "verbose", "debug":
		return LevelVerbose, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", name)
	}
}

// EventType identifies the kind of event, e.g. "store.update.complete".
type EventType string

// Event is one store lifecycle occurrence. Type is the OTel EventName, Source
// the instrumentation scope, and Data the attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics. OnEvent is called
// synchronously on the emitting goroutine and must not block.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// ThresholdObserver forwards events at or above Min to Next.
type ThresholdObserver struct {
	Min  Level
	Next Observer
}

// NewThresholdObserver wraps next so that events below min are dropped.
// A zero min forwards everything and returns next unwrapped.
func NewThresholdObserver(min Level, next Observer) Observer {
	if next == nil {
		return NoOpObserver{}
	}
	if min <= 0 {
		return next
	}
	return &ThresholdObserver{Min: min, Next: next}
}

func (o *ThresholdObserver) OnEvent(ctx context.Context, event Event) {
	if event.Level < o.Min {
		return
	}
	o.Next.OnEvent(ctx, event)
}
