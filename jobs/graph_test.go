package jobs

import (
	"context"
	"testing"

	"github.com/kbukum/modelgraph/graph"
	"github.com/kbukum/modelgraph/query"
)

func TestSubmitPass(t *testing.T) {
	b := graph.NewBuilder()
	_, err := b.Add(graph.PredictorFunc{
		Name: "embedder",
		Fn: func(ctx context.Context, req graph.PredictRequest) (any, error) {
			return []float64{0.1, 0.2}, nil
		},
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze() error = %v", err)
	}

	s := NewScheduler()
	defer s.Shutdown(context.Background())

	h, err := SubmitPass(context.Background(), s, "embed", graph.NewExecutor(), g, graph.ExecuteRequest{
		Data:      "text",
		Selection: query.NewSelect("documents"),
	})
	if err != nil {
		t.Fatalf("SubmitPass() error = %v", err)
	}

	v, err := h.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	result, ok := v.(*graph.Result)
	if !ok {
		t.Fatalf("expected *graph.Result, got %T", v)
	}
	out, err := result.Output()
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if vec, ok := out.([]float64); !ok || len(vec) != 2 {
		t.Errorf("unexpected pass output %v", out)
	}
}
