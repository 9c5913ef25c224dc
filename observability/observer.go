// Package observability carries the lifecycle events the assistant core
// emits while driving a generation request: submission, stream open,
// completion, cancellation, and failures. Severity values follow the
// OpenTelemetry SeverityNumber ranges so events forward to OTel collectors
// without translation.
package observability

import (
	"context"
	"time"
)

// EventType names the kind of event. Emitting packages declare their own
// constants using this type (e.g. "orchestrator.request.start").
type EventType string

// Event is one observability record. Data holds free-form attributes such
// as the request ID or a delta length.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics. Implementations
// must return quickly: the orchestrator emits from its receive loop.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// NoOpObserver discards every event.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}

// MultiObserver forwards each event to every observer it was built with,
// in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates a MultiObserver. Nil entries are dropped.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	kept := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			kept = append(kept, obs)
		}
	}
	return &MultiObserver{observers: kept}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
