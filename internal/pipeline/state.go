package pipeline

// State tracks where a document run is in its lifecycle. A run interrupted
// by an unrecoverable error resolves back to its last checkpoint on the next
// run; Done is terminal.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateCheckpointResolved
	StateTableProcessing
	StateParagraphProcessing
	StateFinalSave
	StateDone
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateCheckpointResolved:
		return "checkpoint_resolved"
	case StateTableProcessing:
		return "table_processing"
	case StateParagraphProcessing:
		return "paragraph_processing"
	case StateFinalSave:
		return "final_save"
	case StateDone:
		return "done"
	case StateInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

func (r *Runner) setState(next State) {
	r.logger.Debug("pipeline state", "from", r.state.String(), "to", next.String())
	r.state = next
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State {
	return r.state
}
