package orchestrator

import "errors"

var (
	// ErrEmptyPrompt is returned by Submit when the prompt trims to nothing.
	// The call has no effect: no state change, no notifications.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrBusy is returned by Submit while a request is in flight. Requests
	// are never queued; the caller decides whether to retry.
	ErrBusy = errors.New("a request is already active")
)
