package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/assistant/prompt"
)

// State is the externally visible orchestrator state. Terminal outcomes
// (completed, cancelled, failed) collapse to StateIdle within the same
// critical section, so callers only ever observe these three values.
type State int

const (
	// StateIdle accepts a new Submit.
	StateIdle State = iota
	// StateSending covers context assembly and opening the stream.
	StateSending
	// StateStreaming covers the receive loop.
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Request is one in-flight generation. The orchestrator owns exactly zero
// or one non-terminal Request at a time and drops the reference once it
// reaches a terminal state; no history is kept.
type Request struct {
	ID        string
	Prompt    string
	Bundle    prompt.Bundle
	CreatedAt time.Time

	// ctx is the request's cancellation handle: the single source of truth
	// for "this request's future units are void". It is checked before
	// every unit is consumed and before every notification is emitted.
	ctx    context.Context
	cancel context.CancelFunc
}

func newRequest(message string) *Request {
	ctx, cancel := context.WithCancel(context.Background())
	return &Request{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Prompt:    message,
		CreatedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}
