package graph

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/modelgraph/errors"
	"github.com/kbukum/modelgraph/logger"
)

// Executor drives one end-to-end pass over a frozen graph. Execution is
// strictly sequential in insertion order; a predictor returning an
// asynchronous handle is not waited on, its handle is threaded forward
// as a dependency for any node consuming its output.
type Executor struct {
	log *logger.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger used for per-pass and per-node events.
func WithLogger(log *logger.Logger) ExecutorOption {
	return func(e *Executor) { e.log = log }
}

// NewExecutor creates an Executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.GetGlobalLogger().WithComponent("executor")
	}
	return e
}

// ExecuteRequest carries the shared inputs of one execution pass.
type ExecuteRequest struct {
	// Data is the original input batch.
	Data any
	// Selection is the base data selection every node starts from.
	Selection Selection
	// IDs restricts the pass to specific record identifiers.
	IDs []string
	// MaxChunkSize is the batching size passed through to every node.
	MaxChunkSize int
	// Dependencies are externally supplied completion handles prepended
	// to every node's dependency list.
	Dependencies []any
	// Params are shared parameters passed through unchanged.
	Params map[string]any
}

// Result holds the outcome of one execution pass.
type Result struct {
	// PassID identifies this pass in logs and traces.
	PassID string
	// Outputs maps every executed node to its recorded result, which
	// may be an asynchronous handle.
	Outputs map[NodeID]any
	// Sinks maps each node without downstream consumers to its result.
	// Which sink to use is the caller's decision; the executor never
	// silently picks one.
	Sinks map[NodeID]any
	// Duration is the wall time of the pass.
	Duration time.Duration
}

// Output returns the result of the graph's only sink node. It fails
// when the graph has several sinks rather than guessing which one the
// caller meant.
func (r *Result) Output() (any, error) {
	if len(r.Sinks) != 1 {
		sinks := make([]string, 0, len(r.Sinks))
		for id := range r.Sinks {
			sinks = append(sinks, strconv.Itoa(int(id)))
		}
		return nil, errors.AmbiguousSink(sinks)
	}
	for _, out := range r.Sinks {
		return out, nil
	}
	return nil, errors.EmptyGraph()
}

// OutputOf returns the recorded result of one node.
func (r *Result) OutputOf(id NodeID) (any, bool) {
	out, ok := r.Outputs[id]
	return out, ok
}

// Execute runs every node of g in insertion order.
//
// Per node it (1) scopes the base selection to each declared input's
// stored output, in declaration order, (2) assembles the dependency
// list from the externally supplied handles plus each input's recorded
// result, (3) invokes the predictor, and (4) records the result for
// downstream nodes.
//
// A predictor error aborts the remaining traversal and is returned to
// the caller unchanged; the partially populated pass state is simply
// discarded. Retries are the external scheduler's responsibility.
func (e *Executor) Execute(ctx context.Context, g *Graph, req ExecuteRequest) (*Result, error) {
	if g == nil || g.Len() == 0 {
		return nil, errors.EmptyGraph()
	}
	if req.Selection == nil {
		return nil, errors.MissingField("selection")
	}

	start := time.Now()
	passID := uuid.NewString()
	state := newExecutionState(g.Len())

	log := e.log.WithFields(logger.Fields(logger.FieldPassID, passID))
	log.Debug("pass started", logger.Fields("nodes", g.Len()))

	for _, node := range g.nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sel := req.Selection
		deps := make([]any, 0, len(req.Dependencies)+len(node.inputs))
		deps = append(deps, req.Dependencies...)

		for _, in := range node.inputs {
			upstream := g.nodes[in]
			sel = sel.ScopeToOutput(req.Data, upstream.Identifier())

			out, ok := state.output(in)
			if !ok {
				// Unreachable for a frozen graph; inputs always precede
				// their consumers in insertion order.
				return nil, errors.Internal(nil).WithDetail("node", node.Identifier())
			}
			deps = append(deps, out)
		}

		var data any
		if node.acceptsData {
			data = req.Data
		}

		output, err := node.predictor.Predict(ctx, PredictRequest{
			Data:         data,
			Selection:    sel,
			IDs:          req.IDs,
			MaxChunkSize: req.MaxChunkSize,
			Dependencies: deps,
			Params:       req.Params,
		})
		if err != nil {
			log.Error("node failed", logger.Fields(
				logger.FieldNode, node.Identifier(),
				logger.FieldError, err.Error(),
			))
			return nil, err
		}

		state.record(node.id, output)
	}

	result := &Result{
		PassID:   passID,
		Outputs:  make(map[NodeID]any, g.Len()),
		Sinks:    make(map[NodeID]any, len(g.sinks)),
		Duration: time.Since(start),
	}
	for _, node := range g.nodes {
		out, _ := state.output(node.id)
		result.Outputs[node.id] = out
	}
	for _, id := range g.sinks {
		result.Sinks[id] = result.Outputs[id]
	}

	log.Debug("pass completed", logger.DurationFields("execute", result.Duration))
	return result, nil
}
