package orchestrator

// Subscriber receives the notifications a request produces. All methods are
// invoked from a single dispatch goroutine in emission order, so
// implementations need no locking of their own; a slow subscriber delays
// delivery but never the receive loop.
type Subscriber interface {
	// OnDelta delivers one increment of response text, in arrival order.
	OnDelta(requestID, text string)
	// OnError reports the single transport failure that ended the request.
	OnError(requestID, message string)
	// OnDiagnostic reports a non-fatal problem, such as one undecodable
	// frame. The stream continues.
	OnDiagnostic(requestID, message string)
	// OnComplete signals normal end of stream. Cancelled requests complete
	// silently and failed ones report through OnError instead.
	OnComplete(requestID string)
}

// NoOpSubscriber ignores all notifications. It is the default when the
// orchestrator is constructed without a subscriber.
type NoOpSubscriber struct{}

func (NoOpSubscriber) OnDelta(string, string)      {}
func (NoOpSubscriber) OnError(string, string)      {}
func (NoOpSubscriber) OnDiagnostic(string, string) {}
func (NoOpSubscriber) OnComplete(string)           {}

type notifKind int

const (
	notifDelta notifKind = iota
	notifError
	notifDiagnostic
	notifComplete
)

// notification is one queued subscriber call.
type notification struct {
	kind      notifKind
	requestID string
	text      string
}
