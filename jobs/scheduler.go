package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	apperrors "github.com/kbukum/modelgraph/errors"
	"github.com/kbukum/modelgraph/logger"
)

const (
	// DefaultResultTTL is how long finished handles stay resolvable by ID.
	DefaultResultTTL = 10 * time.Minute
	// DefaultCleanupInterval is how often expired handles are purged.
	DefaultCleanupInterval = time.Minute
)

// Fn is the unit of work a job runs. The deps slice holds the results
// of the job's dependencies in the order they were declared.
type Fn func(ctx context.Context, deps []any) (any, error)

// Spec describes a job to submit.
type Spec struct {
	// Name labels the job in logs and handle lookups.
	Name string
	// Dependencies are handles this job waits on before running.
	Dependencies []*Handle
	// Fn is the work to run once dependencies have succeeded.
	Fn Fn
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for job lifecycle events.
func WithLogger(log *logger.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithResultTTL sets how long finished handles stay resolvable by ID.
func WithResultTTL(ttl time.Duration) Option {
	return func(s *Scheduler) { s.resultTTL = ttl }
}

// Scheduler runs submitted jobs on their own goroutines, honoring the
// dependency order declared at submission.
type Scheduler struct {
	log       *logger.Logger
	resultTTL time.Duration
	handles   *cache.Cache

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler ready to accept jobs.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		log:       logger.GetGlobalLogger(),
		resultTTL: DefaultResultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handles = cache.New(s.resultTTL, DefaultCleanupInterval)
	return s
}

// Submit registers a job and starts it as soon as its dependencies
// have finished. Submission fails after Shutdown has been called.
func (s *Scheduler) Submit(ctx context.Context, spec Spec) (*Handle, error) {
	if spec.Fn == nil {
		return nil, apperrors.InvalidInput("fn", "a job must have a function to run")
	}
	if spec.Name == "" {
		return nil, apperrors.MissingField("name")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, apperrors.Unavailable("job scheduler")
	}
	h := newHandle(spec.Name)
	s.wg.Add(1)
	s.mu.Unlock()

	s.handles.Set(h.id.String(), h, cache.DefaultExpiration)

	log := s.log.WithFields(map[string]any{
		logger.FieldJobID: h.id.String(),
		"job":             spec.Name,
	})
	log.Debug("job submitted")

	go s.run(ctx, h, spec, log)
	return h, nil
}

func (s *Scheduler) run(ctx context.Context, h *Handle, spec Spec, log *logger.Logger) {
	defer s.wg.Done()

	deps, err := waitForDeps(ctx, spec.Dependencies)
	if err != nil {
		log.WithError(err).Warn("job dependency failed")
		h.finish(nil, err)
		return
	}

	h.setRunning()
	start := time.Now()
	result, err := spec.Fn(ctx, deps)
	if err != nil {
		log.WithError(err).Error("job failed", logger.DurationFields("run", time.Since(start)))
		h.finish(nil, err)
		return
	}

	log.Debug("job finished", logger.DurationFields("run", time.Since(start)))
	h.finish(result, nil)
}

// waitForDeps blocks until every dependency has finished, returning
// their results in declaration order. A failed dependency fails the
// wait with that dependency's error.
func waitForDeps(ctx context.Context, deps []*Handle) ([]any, error) {
	results := make([]any, len(deps))
	for i, dep := range deps {
		result, err := dep.Wait(ctx)
		if err != nil {
			return nil, apperrors.ExecutionFailed(dep.Name(), err)
		}
		results[i] = result
	}
	return results, nil
}

// Lookup resolves a handle by ID. Finished handles expire after the
// configured result TTL.
func (s *Scheduler) Lookup(id uuid.UUID) (*Handle, bool) {
	v, ok := s.handles.Get(id.String())
	if !ok {
		return nil, false
	}
	return v.(*Handle), true
}

// Shutdown stops accepting new jobs and waits for running jobs to
// finish, or until the context is canceled.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return apperrors.Timeout("scheduler shutdown")
	}
}
