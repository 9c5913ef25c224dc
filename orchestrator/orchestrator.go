// Package orchestrator owns the lifecycle of a single in-flight generation
// request: it assembles the context payload, opens the streaming call to
// the inference server, and hands decoded increments to a subscriber in
// order. At most one request is non-terminal at any time; Submit while busy
// is rejected, never queued.
//
//	o, err := orchestrator.New(&cfg, orchestrator.WithSubscriber(ui))
//	err = o.Submit("Explain foo()", prompt.Flags{ActiveFile: true})
package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tailored-agentic-units/assistant/hub"
	"github.com/tailored-agentic-units/assistant/observability"
	"github.com/tailored-agentic-units/assistant/ollama"
	"github.com/tailored-agentic-units/assistant/prompt"
)

// StreamClient abstracts the inference-server client for testability.
// The default implementation is *ollama.Client.
type StreamClient interface {
	Generate(ctx context.Context, model, prompt string) (<-chan ollama.Unit, error)
	Models(ctx context.Context) ([]string, error)
}

// Option configures an Orchestrator after config-driven initialization.
type Option func(*Orchestrator)

// WithStreamClient overrides the config-created server client.
func WithStreamClient(c StreamClient) Option {
	return func(o *Orchestrator) { o.client = c }
}

// WithSources supplies the host editor's context providers.
func WithSources(s prompt.Sources) Option {
	return func(o *Orchestrator) { o.sources = s }
}

// WithSubscriber supplies the notification consumer.
func WithSubscriber(s Subscriber) Option {
	return func(o *Orchestrator) { o.sub = s }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(obs observability.Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// Orchestrator drives one generation request at a time. The single-flight
// discipline is structural: the request slot is occupied on Submit and
// vacated on reaching a terminal state, so no two receive loops ever run
// concurrently.
type Orchestrator struct {
	client   StreamClient
	sources  prompt.Sources
	sub      Subscriber
	observer observability.Observer

	queue        *hub.Queue[notification]
	dispatchDone chan struct{}

	mu      sync.Mutex
	state   State
	current *Request
	model   string
}

// New creates an Orchestrator from configuration. The server client is
// built from cfg.Server; functional options can override any collaborator.
func New(cfg *Config, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}

	o := &Orchestrator{
		sources:      prompt.NoSources{},
		sub:          NoOpSubscriber{},
		observer:     observability.NewSlogObserver(slog.Default()),
		queue:        hub.NewQueue[notification](),
		dispatchDone: make(chan struct{}),
		state:        StateIdle,
		model:        cfg.Model,
	}

	if cfg.Server.BaseURL != "" {
		client, err := ollama.NewClient(&cfg.Server)
		if err != nil {
			return nil, err
		}
		o.client = client
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		return nil, ollama.ErrMissingBaseURL
	}

	go o.dispatch()
	return o, nil
}

// Submit starts a new request for the given user message and inclusion
// flags. Returns ErrEmptyPrompt when the message trims to nothing and
// ErrBusy while another request is active; both are plain rejections with
// no state change and no notifications. On success the request runs on its
// own goroutine and results arrive through the Subscriber.
func (o *Orchestrator) Submit(message string, flags prompt.Flags) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyPrompt
	}

	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return ErrBusy
	}
	req := newRequest(message)
	o.state = StateSending
	o.current = req
	model := o.model
	o.mu.Unlock()

	o.emit(req.ctx, EventRequestStart, observability.LevelInfo, "orchestrator.Submit", map[string]any{
		"request_id":    req.ID,
		"model":         model,
		"prompt_length": len(message),
	})

	go o.run(req, flags, model)
	return nil
}

// IsRequestActive reports whether a request is currently sending or
// streaming.
func (o *Orchestrator) IsRequestActive() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state != StateIdle
}

// CancelCurrentRequest cancels the in-flight request, closing its server
// connection. No-op when idle; idempotent; produces no error notification.
// When it returns, IsRequestActive is false and no further notifications
// for the cancelled request will be emitted.
func (o *Orchestrator) CancelCurrentRequest() {
	o.mu.Lock()
	req := o.current
	if req == nil {
		o.mu.Unlock()
		return
	}
	// Cancel inside the critical section: emission checks the context under
	// the same lock, so nothing for this request is queued after we return.
	req.cancel()
	o.current = nil
	o.state = StateIdle
	o.mu.Unlock()

	o.emit(context.Background(), EventRequestCancelled, observability.LevelInfo, "orchestrator.CancelCurrentRequest", map[string]any{
		"request_id": req.ID,
	})
}

// Models lists the models the configured server hosts. Used once at UI
// initialization to populate a picker; failures are returned whole rather
// than as a partial list.
func (o *Orchestrator) Models(ctx context.Context) ([]string, error) {
	return o.client.Models(ctx)
}

// Model returns the identifier the next Submit will use.
func (o *Orchestrator) Model() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.model
}

// SetModel changes the model for subsequent requests. The in-flight
// request, if any, keeps the model it was submitted with.
func (o *Orchestrator) SetModel(name string) {
	o.mu.Lock()
	o.model = name
	o.mu.Unlock()
}

// Close cancels any in-flight request and stops notification dispatch after
// draining already-emitted notifications.
func (o *Orchestrator) Close() {
	o.CancelCurrentRequest()
	o.queue.Close()
	<-o.dispatchDone
}

// run is the single cooperative task driving one request from context
// assembly through the receive loop to a terminal state.
func (o *Orchestrator) run(req *Request, flags prompt.Flags, model string) {
	req.Bundle = prompt.Build(req.ctx, o.sources, flags)
	payload := req.Bundle.Render(req.Prompt)

	units, err := o.client.Generate(req.ctx, model, payload)
	if err != nil {
		if req.ctx.Err() != nil {
			o.finish(req, EventRequestCancelled, nil, nil)
			return
		}
		o.finish(req, EventRequestFailed, err,
			&notification{kind: notifError, requestID: req.ID, text: err.Error()})
		return
	}

	if !o.advance(req, StateStreaming) {
		return
	}
	o.emit(req.ctx, EventStreamOpen, observability.LevelVerbose, "orchestrator.run", map[string]any{
		"request_id": req.ID,
		"model":      model,
	})

	for {
		// A cancellation signal observed before the next unit is consumed
		// wins; checked non-blocking first so a ready unit cannot shadow it.
		select {
		case <-req.ctx.Done():
			o.finish(req, EventRequestCancelled, nil, nil)
			return
		default:
		}

		select {
		case <-req.ctx.Done():
			o.finish(req, EventRequestCancelled, nil, nil)
			return
		case unit, ok := <-units:
			if !ok {
				// The producer only closes without a terminal unit when the
				// request context was cancelled.
				o.finish(req, EventRequestCancelled, nil, nil)
				return
			}

			switch unit.Kind {
			case ollama.UnitDelta:
				o.notify(req, notification{kind: notifDelta, requestID: req.ID, text: unit.Text})

			case ollama.UnitDecodeError:
				o.notify(req, notification{kind: notifDiagnostic, requestID: req.ID, text: unit.Err.Error()})
				o.emit(req.ctx, EventFrameDropped, observability.LevelWarning, "orchestrator.run", map[string]any{
					"request_id": req.ID,
					"error":      unit.Err.Error(),
				})

			case ollama.UnitDone:
				o.finish(req, EventRequestComplete, nil,
					&notification{kind: notifComplete, requestID: req.ID})
				return

			case ollama.UnitTransportError:
				o.finish(req, EventRequestFailed, unit.Err,
					&notification{kind: notifError, requestID: req.ID, text: unit.Err.Error()})
				return
			}
		}
	}
}

// advance moves the request to a new live state. Returns false when the
// request is no longer current (cancelled while opening).
func (o *Orchestrator) advance(req *Request, s State) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != req {
		return false
	}
	o.state = s
	return true
}

// finish vacates the request slot, queues the terminal notification if any,
// and records the outcome. Detaching and queueing happen under one lock so
// a subscriber reacting to the terminal notification already observes the
// orchestrator as idle. When the request was already detached by
// CancelCurrentRequest, nothing happens: cancellation won the race.
func (o *Orchestrator) finish(req *Request, terminal observability.EventType, err error, n *notification) {
	o.mu.Lock()
	if o.current != req {
		o.mu.Unlock()
		return
	}
	o.current = nil
	o.state = StateIdle
	if n != nil && req.ctx.Err() == nil {
		o.queue.Push(*n)
	}
	o.mu.Unlock()

	req.cancel()

	level := observability.LevelInfo
	data := map[string]any{"request_id": req.ID}
	if err != nil {
		level = observability.LevelError
		data["error"] = err.Error()
	}
	o.emit(context.Background(), terminal, level, "orchestrator.run", data)
}

// notify queues one subscriber call. Emission is serialized with
// cancellation: a request that is no longer current, or whose context is
// cancelled, emits nothing.
func (o *Orchestrator) notify(req *Request, n notification) {
	o.mu.Lock()
	live := o.current == req && req.ctx.Err() == nil
	if live {
		o.queue.Push(n)
	}
	o.mu.Unlock()
}

// dispatch delivers queued notifications to the subscriber, one at a time,
// preserving emission order across the whole orchestrator lifetime.
func (o *Orchestrator) dispatch() {
	defer close(o.dispatchDone)

	for {
		n, ok := o.queue.Pop()
		if !ok {
			return
		}
		switch n.kind {
		case notifDelta:
			o.sub.OnDelta(n.requestID, n.text)
		case notifError:
			o.sub.OnError(n.requestID, n.text)
		case notifDiagnostic:
			o.sub.OnDiagnostic(n.requestID, n.text)
		case notifComplete:
			o.sub.OnComplete(n.requestID)
		}
	}
}

func (o *Orchestrator) emit(ctx context.Context, t observability.EventType, level observability.Level, source string, data map[string]any) {
	o.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}
