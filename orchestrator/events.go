package orchestrator

import "github.com/tailored-agentic-units/assistant/observability"

// Orchestrator event types emitted over the request lifecycle.
const (
	EventRequestStart     observability.EventType = "orchestrator.request.start"
	EventStreamOpen       observability.EventType = "orchestrator.stream.open"
	EventRequestComplete  observability.EventType = "orchestrator.request.complete"
	EventRequestCancelled observability.EventType = "orchestrator.request.cancelled"
	EventRequestFailed    observability.EventType = "orchestrator.request.failed"
	EventFrameDropped     observability.EventType = "orchestrator.frame.dropped"
)
