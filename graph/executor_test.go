package graph

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/kbukum/modelgraph/errors"
)

func scopesOf(t *testing.T, req PredictRequest) []string {
	t.Helper()
	sel, ok := req.Selection.(stubSelection)
	if !ok {
		t.Fatalf("expected stubSelection, got %T", req.Selection)
	}
	return sel.scopes
}

func TestExecutor_SingleNode(t *testing.T) {
	p := &stubPredictor{name: "m1", result: "out1"}
	b := NewBuilder()
	mustAdd(t, b, p)
	g, _ := b.Freeze()

	external := []any{"job-7"}
	result, err := NewExecutor().Execute(context.Background(), g, ExecuteRequest{
		Data:         "batch",
		Selection:    stubSelection{},
		Dependencies: external,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p.calls) != 1 {
		t.Fatalf("expected exactly one invocation, got %d", len(p.calls))
	}
	call := p.calls[0]
	if call.Data != "batch" {
		t.Errorf("expected original data, got %v", call.Data)
	}
	if len(scopesOf(t, call)) != 0 {
		t.Errorf("base selection should be unmodified, got scopes %v", scopesOf(t, call))
	}
	if !reflect.DeepEqual(call.Dependencies, external) {
		t.Errorf("expected only external dependencies, got %v", call.Dependencies)
	}

	out, err := result.Output()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "out1" {
		t.Errorf("expected 'out1', got %v", out)
	}
}

func TestExecutor_Chain(t *testing.T) {
	var order []string
	chain := func(name string, result any) *stubPredictor {
		return &stubPredictor{name: name, result: result}
	}
	a, bp, c := chain("a", "outA"), chain("b", "outB"), chain("c", "outC")

	b := NewBuilder()
	idA := mustAdd(t, b, a)
	idB := mustAdd(t, b, bp, WithInputs(idA))
	mustAdd(t, b, c, WithInputs(idB))
	g, _ := b.Freeze()

	result, err := NewExecutor().Execute(context.Background(), g, ExecuteRequest{
		Data:      "batch",
		Selection: stubSelection{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, p := range []*stubPredictor{a, bp, c} {
		if len(p.calls) != 1 {
			t.Fatalf("expected %s invoked once, got %d", p.name, len(p.calls))
		}
		order = append(order, p.name)
	}
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Errorf("unexpected invocation order: %v", order)
	}

	if got := scopesOf(t, bp.calls[0]); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("b's selection should be scoped to a's output, got %v", got)
	}
	if got := scopesOf(t, c.calls[0]); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("c's selection should be scoped to b's output, got %v", got)
	}
	if !reflect.DeepEqual(c.calls[0].Dependencies, []any{"outB"}) {
		t.Errorf("c's dependencies should include b's handle, got %v", c.calls[0].Dependencies)
	}

	out, err := result.Output()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "outC" {
		t.Errorf("expected chain result 'outC', got %v", out)
	}
}

func TestExecutor_TwoInputs(t *testing.T) {
	x := &stubPredictor{name: "x", result: "outX"}
	y := &stubPredictor{name: "y", result: "outY"}
	joined := &stubPredictor{name: "join"}

	b := NewBuilder()
	idX := mustAdd(t, b, x)
	idY := mustAdd(t, b, y, WithInputs(idX), WithAcceptsData(true))
	mustAdd(t, b, joined, WithInputs(idX, idY))
	g, _ := b.Freeze()

	_, err := NewExecutor().Execute(context.Background(), g, ExecuteRequest{
		Data:      "batch",
		Selection: stubSelection{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := joined.calls[0]
	if got := scopesOf(t, call); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("selection should be scoped to both inputs in declaration order, got %v", got)
	}
	if !reflect.DeepEqual(call.Dependencies, []any{"outX", "outY"}) {
		t.Errorf("dependency order should match declaration order, got %v", call.Dependencies)
	}
}

// The walkthrough scenario: m1 takes raw data, m2 takes m1's output plus
// raw data, m3 takes m1 and m2 but no raw data.
func TestExecutor_MixedGraph(t *testing.T) {
	m1 := &stubPredictor{name: "m1", result: "out1"}
	m2 := &stubPredictor{name: "m2", result: "out2"}
	m3 := &stubPredictor{name: "m3", result: "out3"}

	b := NewBuilder()
	id1 := mustAdd(t, b, m1)
	id2 := mustAdd(t, b, m2, WithInputs(id1), WithAcceptsData(true))
	mustAdd(t, b, m3, WithInputs(id1, id2))
	g, _ := b.Freeze()

	result, err := NewExecutor().Execute(context.Background(), g, ExecuteRequest{
		Data:      "D",
		Selection: stubSelection{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(scopesOf(t, m1.calls[0])) != 0 {
		t.Errorf("m1 should run with the base selection")
	}
	if m1.calls[0].Data != "D" {
		t.Errorf("m1 should receive the original data")
	}

	if got := scopesOf(t, m2.calls[0]); !reflect.DeepEqual(got, []string{"m1"}) {
		t.Errorf("m2's selection should be scoped to m1, got %v", got)
	}
	if m2.calls[0].Data != "D" {
		t.Errorf("m2 accepts data and should receive it")
	}

	if got := scopesOf(t, m3.calls[0]); !reflect.DeepEqual(got, []string{"m1", "m2"}) {
		t.Errorf("m3's selection should be scoped to m1 then m2, got %v", got)
	}
	if m3.calls[0].Data != nil {
		t.Errorf("m3 does not accept data but received %v", m3.calls[0].Data)
	}
	if !reflect.DeepEqual(m3.calls[0].Dependencies, []any{"out1", "out2"}) {
		t.Errorf("m3's dependencies should be m1's and m2's handles, got %v", m3.calls[0].Dependencies)
	}

	out, err := result.Output()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "out3" {
		t.Errorf("expected m3's result, got %v", out)
	}
}

func TestExecutor_ErrorAbortsTraversal(t *testing.T) {
	boom := stderrors.New("model exploded")
	a := &stubPredictor{name: "a"}
	bad := &stubPredictor{name: "bad", err: boom}
	after := &stubPredictor{name: "after"}

	b := NewBuilder()
	idA := mustAdd(t, b, a)
	idBad := mustAdd(t, b, bad, WithInputs(idA))
	mustAdd(t, b, after, WithInputs(idBad))
	g, _ := b.Freeze()

	_, err := NewExecutor().Execute(context.Background(), g, ExecuteRequest{
		Data:      "batch",
		Selection: stubSelection{},
	})
	if err != boom {
		t.Fatalf("expected the predictor's error unchanged, got %v", err)
	}
	if len(after.calls) != 0 {
		t.Errorf("nodes after the failure must not run, got %d calls", len(after.calls))
	}
}

func TestExecutor_MissingSelection(t *testing.T) {
	b := NewBuilder()
	p := &stubPredictor{name: "m1"}
	mustAdd(t, b, p)
	g, _ := b.Freeze()

	_, err := NewExecutor().Execute(context.Background(), g, ExecuteRequest{Data: "batch"})
	if !errors.HasCode(err, errors.ErrCodeMissingField) {
		t.Fatalf("expected MISSING_FIELD for nil selection, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Error("no predictor should run without a base selection")
	}
}

func TestExecutor_NilGraph(t *testing.T) {
	_, err := NewExecutor().Execute(context.Background(), nil, ExecuteRequest{
		Selection: stubSelection{},
	})
	if !errors.HasCode(err, errors.ErrCodeEmptyGraph) {
		t.Fatalf("expected EMPTY_GRAPH, got %v", err)
	}
}

func TestExecutor_MultiSink(t *testing.T) {
	root := &stubPredictor{name: "root", result: "outR"}
	s1 := &stubPredictor{name: "s1", result: "outS1"}
	s2 := &stubPredictor{name: "s2", result: "outS2"}

	b := NewBuilder()
	idRoot := mustAdd(t, b, root)
	mustAdd(t, b, s1, WithInputs(idRoot))
	mustAdd(t, b, s2, WithInputs(idRoot))
	g, _ := b.Freeze()

	result, err := NewExecutor().Execute(context.Background(), g, ExecuteRequest{
		Data:      "batch",
		Selection: stubSelection{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Sinks) != 2 {
		t.Fatalf("expected both sink outputs, got %v", result.Sinks)
	}
	if _, err := result.Output(); !errors.HasCode(err, errors.ErrCodeAmbiguousSink) {
		t.Errorf("expected AMBIGUOUS_SINK for a single-result request, got %v", err)
	}
}

func TestExecutor_SharedParamsPassthrough(t *testing.T) {
	p := &stubPredictor{name: "m1"}
	b := NewBuilder()
	mustAdd(t, b, p)
	g, _ := b.Freeze()

	params := map[string]any{"temperature": 0.2}
	_, err := NewExecutor().Execute(context.Background(), g, ExecuteRequest{
		Data:         "batch",
		Selection:    stubSelection{},
		IDs:          []string{"r1", "r2"},
		MaxChunkSize: 64,
		Params:       params,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := p.calls[0]
	if call.MaxChunkSize != 64 {
		t.Errorf("expected max chunk size 64, got %d", call.MaxChunkSize)
	}
	if !reflect.DeepEqual(call.IDs, []string{"r1", "r2"}) {
		t.Errorf("expected ids passed through, got %v", call.IDs)
	}
	if !reflect.DeepEqual(call.Params, params) {
		t.Errorf("expected params passed through unchanged, got %v", call.Params)
	}
}

func TestExecutor_ContextCancelled(t *testing.T) {
	p := &stubPredictor{name: "m1"}
	b := NewBuilder()
	mustAdd(t, b, p)
	g, _ := b.Freeze()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecutor().Execute(ctx, g, ExecuteRequest{
		Data:      "batch",
		Selection: stubSelection{},
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Error("no predictor should run after cancellation")
	}
}

func TestExecutor_PassStateDiscarded(t *testing.T) {
	p := &stubPredictor{name: "m1", result: "first"}
	b := NewBuilder()
	mustAdd(t, b, p)
	g, _ := b.Freeze()

	exec := NewExecutor()
	req := ExecuteRequest{Data: "batch", Selection: stubSelection{}}

	r1, err := exec.Execute(context.Background(), g, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.result = "second"
	r2, err := exec.Execute(context.Background(), g, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r1.PassID == r2.PassID {
		t.Error("each pass should have a distinct id")
	}
	out1, _ := r1.Output()
	out2, _ := r2.Output()
	if out1 != "first" || out2 != "second" {
		t.Errorf("pass state leaked across calls: %v, %v", out1, out2)
	}
}
