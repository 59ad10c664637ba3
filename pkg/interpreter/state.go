package interpreter

// State is the interpreter loop state.
type State int32

const (
	// StateIdle is the state before the loop starts and between invocations.
	StateIdle State = iota
	// StateAwaitingLine is the state while blocked on the line source.
	StateAwaitingLine
	// StateProcessing is the state while a line is tokenized, dispatched and reported.
	StateProcessing
	// StateTerminated is the state after the loop has ended.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingLine:
		return "awaiting-line"
	case StateProcessing:
		return "processing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
