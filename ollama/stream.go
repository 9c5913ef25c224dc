package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxFrameSize bounds a single NDJSON frame. Models can emit long runs of
// text in one frame when the server coalesces tokens.
const maxFrameSize = 1 << 20

// unitBuffer smooths bursts between the scanner and the consumer without
// reordering; it is not a backpressure mechanism.
const unitBuffer = 16

// Generate opens one streaming generation request and returns the ordered
// sequence of decoded units. The open itself is synchronous: a connection
// failure or non-2xx status is returned as an error and no channel is
// created. On success the returned channel yields units strictly in wire
// order and is closed after the terminal unit (UnitDone or
// UnitTransportError) or once ctx is cancelled. After cancellation no
// further units are emitted.
func (c *Client) Generate(ctx context.Context, model, prompt string) (<-chan Unit, error) {
	body, err := json.Marshal(generateRequest{Model: model, Prompt: prompt, Stream: true})
	if err != nil {
		return nil, fmt.Errorf("generate: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail := readStatusDetail(resp.Body)
		resp.Body.Close()
		if detail != "" {
			return nil, fmt.Errorf("generate: %w: %s: %s", ErrUnexpectedStatus, resp.Status, detail)
		}
		return nil, fmt.Errorf("generate: %w: %s", ErrUnexpectedStatus, resp.Status)
	}

	units := make(chan Unit, unitBuffer)
	go scanFrames(ctx, resp.Body, units)
	return units, nil
}

// scanFrames decodes NDJSON frames from body into units until the stream
// ends. One malformed frame yields one UnitDecodeError and scanning
// continues; a read failure or in-band server error yields exactly one
// UnitTransportError and ends the sequence.
func scanFrames(ctx context.Context, body io.ReadCloser, units chan<- Unit) {
	defer close(units)
	defer body.Close()

	// Cancellation closes the request body through the http transport, so a
	// blocked Scan returns promptly. The emit select covers the remaining
	// window where the consumer has already walked away.
	emit := func(u Unit) bool {
		select {
		case units <- u:
			return true
		case <-ctx.Done():
			return false
		}
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var frame generateFrame
		if err := json.Unmarshal(line, &frame); err != nil {
			if !emit(Unit{Kind: UnitDecodeError, Err: fmt.Errorf("malformed frame: %w", err)}) {
				return
			}
			continue
		}

		if frame.Error != "" {
			emit(Unit{Kind: UnitTransportError, Err: fmt.Errorf("server error: %s", frame.Error)})
			return
		}

		if frame.Response != "" {
			if !emit(Unit{Kind: UnitDelta, Text: frame.Response}) {
				return
			}
		}

		if frame.Done {
			emit(Unit{Kind: UnitDone})
			return
		}
	}

	// Falling out of the loop means no terminal frame arrived: either the
	// read failed or the server hung up before sending done.
	if ctx.Err() != nil {
		return
	}
	if err := scanner.Err(); err != nil {
		emit(Unit{Kind: UnitTransportError, Err: fmt.Errorf("stream read: %w", err)})
		return
	}
	emit(Unit{Kind: UnitTransportError, Err: errIncompleteStream})
}
