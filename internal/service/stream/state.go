package stream

// State is a step of the answer delivery lifecycle.
//
//	Idle -> Generating -> Emitting -> Terminated
//	Idle -> Generating -> Failed
//	Generating | Emitting -> Cancelled
type State int

const (
	Idle State = iota
	Generating
	Emitting
	Terminated
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Emitting:
		return "emitting"
	case Terminated:
		return "terminated"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
