package ollama

import "errors"

var (
	// ErrMissingBaseURL is returned by NewClient when no server URL is configured.
	ErrMissingBaseURL = errors.New("server base URL not configured")

	// ErrUnexpectedStatus is returned when the server answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected server status")

	// errIncompleteStream reports a generation stream that ended before the
	// server sent its completion frame.
	errIncompleteStream = errors.New("stream ended before completion frame")
)
