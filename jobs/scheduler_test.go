package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/kbukum/modelgraph/errors"
)

func TestSubmit_RunsJob(t *testing.T) {
	s := NewScheduler()
	defer s.Shutdown(context.Background())

	h, err := s.Submit(context.Background(), Spec{
		Name: "compute",
		Fn: func(ctx context.Context, deps []any) (any, error) {
			return 42, nil
		},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	result, err := h.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %v", result)
	}
	if h.Status() != StatusSucceeded {
		t.Errorf("expected succeeded, got %s", h.Status())
	}
}

func TestSubmit_Validation(t *testing.T) {
	s := NewScheduler()
	defer s.Shutdown(context.Background())

	if _, err := s.Submit(context.Background(), Spec{Name: "no-fn"}); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for nil fn, got %v", err)
	}
	if _, err := s.Submit(context.Background(), Spec{Fn: func(context.Context, []any) (any, error) { return nil, nil }}); !apperrors.HasCode(err, apperrors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD for empty name, got %v", err)
	}
}

func TestSubmit_DependencyOrder(t *testing.T) {
	s := NewScheduler()
	defer s.Shutdown(context.Background())
	ctx := context.Background()

	var firstDone atomic.Bool
	first, err := s.Submit(ctx, Spec{
		Name: "first",
		Fn: func(ctx context.Context, deps []any) (any, error) {
			time.Sleep(10 * time.Millisecond)
			firstDone.Store(true)
			return "a", nil
		},
	})
	if err != nil {
		t.Fatalf("Submit(first) error = %v", err)
	}

	second, err := s.Submit(ctx, Spec{
		Name:         "second",
		Dependencies: []*Handle{first},
		Fn: func(ctx context.Context, deps []any) (any, error) {
			if !firstDone.Load() {
				return nil, errors.New("ran before dependency finished")
			}
			return deps[0].(string) + "b", nil
		},
	})
	if err != nil {
		t.Fatalf("Submit(second) error = %v", err)
	}

	result, err := second.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if result != "ab" {
		t.Errorf("expected dependency result to flow through, got %v", result)
	}
}

func TestSubmit_DependencyFailurePropagates(t *testing.T) {
	s := NewScheduler()
	defer s.Shutdown(context.Background())
	ctx := context.Background()

	boom := errors.New("boom")
	first, err := s.Submit(ctx, Spec{
		Name: "first",
		Fn: func(ctx context.Context, deps []any) (any, error) {
			return nil, boom
		},
	})
	if err != nil {
		t.Fatalf("Submit(first) error = %v", err)
	}

	ran := false
	second, err := s.Submit(ctx, Spec{
		Name:         "second",
		Dependencies: []*Handle{first},
		Fn: func(ctx context.Context, deps []any) (any, error) {
			ran = true
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("Submit(second) error = %v", err)
	}

	if _, err := second.Wait(ctx); !apperrors.HasCode(err, apperrors.ErrCodeExecutionFailed) {
		t.Errorf("expected EXECUTION_FAILED, got %v", err)
	}
	if ran {
		t.Error("job ran despite failed dependency")
	}
	if second.Status() != StatusFailed {
		t.Errorf("expected failed, got %s", second.Status())
	}
	if first.Status() != StatusFailed {
		t.Errorf("expected failed, got %s", first.Status())
	}
}

func TestLookup(t *testing.T) {
	s := NewScheduler()
	defer s.Shutdown(context.Background())

	h, err := s.Submit(context.Background(), Spec{
		Name: "compute",
		Fn:   func(context.Context, []any) (any, error) { return nil, nil },
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	found, ok := s.Lookup(h.ID())
	if !ok {
		t.Fatal("expected handle to be resolvable by ID")
	}
	if found != h {
		t.Error("Lookup returned a different handle")
	}
}

func TestShutdown_RejectsNewJobs(t *testing.T) {
	s := NewScheduler()
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	_, err := s.Submit(context.Background(), Spec{
		Name: "late",
		Fn:   func(context.Context, []any) (any, error) { return nil, nil },
	})
	if !apperrors.HasCode(err, apperrors.ErrCodeServiceUnavailable) {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
}

func TestShutdown_WaitsForRunningJobs(t *testing.T) {
	s := NewScheduler()

	h, err := s.Submit(context.Background(), Spec{
		Name: "slow",
		Fn: func(ctx context.Context, deps []any) (any, error) {
			time.Sleep(20 * time.Millisecond)
			return "done", nil
		},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if h.Status() != StatusSucceeded {
		t.Errorf("expected the slow job to finish before shutdown returned, got %s", h.Status())
	}
}

func TestWait_ContextCanceled(t *testing.T) {
	s := NewScheduler()
	defer s.Shutdown(context.Background())

	block := make(chan struct{})
	h, err := s.Submit(context.Background(), Spec{
		Name: "blocked",
		Fn: func(ctx context.Context, deps []any) (any, error) {
			<-block
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := h.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	close(block)
}
