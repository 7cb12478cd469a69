package ingestion

// State is the position of a pipeline run.
type State int32

const (
	// StateIdle is the state before a run starts.
	StateIdle State = iota
	// StateParsing covers opening the input and reading its header.
	StateParsing
	// StateWriting covers mapping and inserting records.
	StateWriting
	// StateDone means the input was exhausted and the connection released.
	StateDone
	// StateFailed means a fatal error ended the run.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateParsing:
		return "parsing"
	case StateWriting:
		return "writing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
