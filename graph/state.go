package graph

// executionState caches each node's result for the lifetime of one
// Execute call. It is written only by the executor and discarded when
// the pass ends; it is never shared across passes.
type executionState struct {
	outputs  []any
	recorded []bool
}

func newExecutionState(size int) *executionState {
	return &executionState{
		outputs:  make([]any, size),
		recorded: make([]bool, size),
	}
}

func (s *executionState) record(id NodeID, output any) {
	s.outputs[id] = output
	s.recorded[id] = true
}

func (s *executionState) output(id NodeID) (any, bool) {
	return s.outputs[id], s.recorded[id]
}
