package graph

import "context"

// Predictor is the inference capability a node wraps. Implementations
// are free to return a concrete result or an opaque asynchronous handle
// (for example a jobs.Handle); the executor never inspects the result,
// it only threads it forward as a dependency for downstream nodes.
type Predictor interface {
	// Identifier returns the stable name of this predictor. Identifiers
	// must be unique within a graph: they key duplicate detection and
	// name the output location upstream selections are scoped to.
	Identifier() string
	// Predict runs inference for one node in one execution pass.
	Predict(ctx context.Context, req PredictRequest) (any, error)
}

// PredictRequest carries everything a predictor receives for one
// invocation.
type PredictRequest struct {
	// Data is the original batch passed to Execute. It is nil for nodes
	// that do not accept original data; their selection already scopes
	// to the upstream outputs they consume.
	Data any
	// Selection describes which stored data (and whose upstream outputs)
	// the predictor should read.
	Selection Selection
	// IDs restricts the pass to specific record identifiers.
	IDs []string
	// MaxChunkSize is the batching size, passed through unchanged.
	MaxChunkSize int
	// Dependencies are opaque completion handles the predictor must
	// declare to its scheduler before running: the externally supplied
	// ones first, then one per declared input in declaration order.
	Dependencies []any
	// Params are shared parameters passed through unchanged to every
	// node in the pass.
	Params map[string]any
}

// Selection is a query/scope object describing which stored data a
// predictor should read. Implementations must be non-mutating:
// ScopeToOutput returns a new selection composed on top of the
// receiver, leaving the receiver untouched so the same base selection
// can be scoped independently for every node.
type Selection interface {
	// ScopeToOutput returns a selection additionally scoped to the
	// persisted outputs of the named upstream predictor for the given
	// data key.
	ScopeToOutput(data any, identifier string) Selection
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc struct {
	Name string
	Fn   func(ctx context.Context, req PredictRequest) (any, error)
}

func (p PredictorFunc) Identifier() string { return p.Name }

func (p PredictorFunc) Predict(ctx context.Context, req PredictRequest) (any, error) {
	return p.Fn(ctx, req)
}
