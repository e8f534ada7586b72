package jobs

import (
	"context"

	"github.com/kbukum/modelgraph/graph"
)

// SubmitPass runs a full execution pass over the graph as a single
// job named after the graph. The returned handle resolves to the pass
// *graph.Result.
func SubmitPass(ctx context.Context, s *Scheduler, name string, exec *graph.Executor, g *graph.Graph, req graph.ExecuteRequest) (*Handle, error) {
	return s.Submit(ctx, Spec{
		Name: name,
		Fn: func(ctx context.Context, _ []any) (any, error) {
			return exec.Execute(ctx, g, req)
		},
	})
}
