package jobs

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a submitted job.
type Status string

const (
	// StatusPending means the job is waiting on its dependencies.
	StatusPending Status = "pending"
	// StatusRunning means the job function is executing.
	StatusRunning Status = "running"
	// StatusSucceeded means the job finished without error.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means the job or one of its dependencies failed.
	StatusFailed Status = "failed"
)

// Handle identifies a submitted job and carries its outcome once the
// job has finished. Handles are safe for concurrent use.
type Handle struct {
	id   uuid.UUID
	name string
	done chan struct{}

	mu     sync.Mutex
	status Status
	result any
	err    error
}

func newHandle(name string) *Handle {
	return &Handle{
		id:     uuid.New(),
		name:   name,
		done:   make(chan struct{}),
		status: StatusPending,
	}
}

// ID returns the unique identifier assigned at submission.
func (h *Handle) ID() uuid.UUID { return h.id }

// Name returns the job name given at submission.
func (h *Handle) Name() string { return h.name }

// Status returns the current lifecycle state.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Done returns a channel closed when the job has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Result returns the job outcome. It must only be called after Done
// is closed; before that it reports the zero outcome.
func (h *Handle) Result() (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result, h.err
}

// Wait blocks until the job finishes or the context is canceled, then
// returns the job outcome.
func (h *Handle) Wait(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handle) setRunning() {
	h.mu.Lock()
	h.status = StatusRunning
	h.mu.Unlock()
}

func (h *Handle) finish(result any, err error) {
	h.mu.Lock()
	h.result = result
	h.err = err
	if err != nil {
		h.status = StatusFailed
	} else {
		h.status = StatusSucceeded
	}
	h.mu.Unlock()
	close(h.done)
}
