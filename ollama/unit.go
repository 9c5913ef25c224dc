package ollama

// UnitKind discriminates the decoded increments of a generation stream.
type UnitKind int

const (
	// UnitDelta carries one increment of response text.
	UnitDelta UnitKind = iota
	// UnitDone marks normal end of stream. Emitted exactly once.
	UnitDone
	// UnitTransportError marks a connection-level failure. Emitted at most
	// once and always last.
	UnitTransportError
	// UnitDecodeError reports a single malformed frame. The stream continues.
	UnitDecodeError
)

func (k UnitKind) String() string {
	switch k {
	case UnitDelta:
		return "delta"
	case UnitDone:
		return "done"
	case UnitTransportError:
		return "transport_error"
	case UnitDecodeError:
		return "decode_error"
	default:
		return "unknown"
	}
}

// Unit is one decoded increment of a streamed model reply, or a terminal or
// error marker. Text is set for UnitDelta; Err for the error kinds.
type Unit struct {
	Kind UnitKind
	Text string
	Err  error
}
