package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	apperrors "github.com/kbukum/modelgraph/errors"
	"github.com/kbukum/modelgraph/graph"
	"github.com/kbukum/modelgraph/jobs"
	"github.com/kbukum/modelgraph/logger"
	"github.com/kbukum/modelgraph/observability"
	"github.com/kbukum/modelgraph/query"
	"github.com/kbukum/modelgraph/version"
)

const graphCacheTTL = time.Minute

// Service wires graph execution to HTTP handlers.
type Service struct {
	name      string
	registry  *graph.PredictorRegistry
	loader    graph.ManifestLoader
	executor  *graph.Executor
	scheduler *jobs.Scheduler
	log       *logger.Logger
	metrics   *observability.Metrics

	// graphs caches built graphs by manifest name so the manifest is
	// not re-read and re-validated on every request.
	graphs *cache.Cache
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMetrics enables request and execution metric recording.
func WithMetrics(m *observability.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// NewService creates the HTTP service for a predictor registry and
// manifest loader.
func NewService(name string, registry *graph.PredictorRegistry, loader graph.ManifestLoader, scheduler *jobs.Scheduler, log *logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		name:      name,
		registry:  registry,
		loader:    loader,
		executor:  graph.NewExecutor(graph.WithLogger(log)),
		scheduler: scheduler,
		log:       log.WithComponent("api"),
		graphs:    cache.New(graphCacheTTL, 5*time.Minute),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRoutes registers all service routes on the engine. When auth
// is enabled the /v1 routes require a Bearer token; health and version
// stay open.
func (s *Service) RegisterRoutes(engine *gin.Engine, auth AuthConfig) {
	if s.metrics != nil {
		engine.Use(RequestMetrics(s.name, s.metrics))
	}

	engine.GET("/health", s.handleHealth)
	engine.GET("/version", s.handleVersion)
	engine.GET("/metrics", s.handleMetrics)

	v1 := engine.Group("/v1")
	if auth.Enabled {
		v1.Use(Auth(auth))
	}
	v1.GET("/predictors", s.handleListPredictors)
	v1.POST("/graphs/:name/execute", s.handleExecute)
	v1.GET("/jobs/:id", s.handleGetJob)
}

// ExecuteGraphRequest is the request body for a graph execution pass.
type ExecuteGraphRequest struct {
	// Data is the original input batch handed to data-accepting nodes.
	Data any `json:"data"`
	// Collection is the stored collection the base selection reads from.
	Collection string `json:"collection" binding:"required"`
	// Filter restricts the base selection.
	Filter query.Document `json:"filter"`
	// Fields optionally projects the selected documents.
	Fields []string `json:"fields"`
	// IDs restricts the pass to specific record identifiers.
	IDs []string `json:"ids"`
	// MaxChunkSize is the batching size passed through to every node.
	MaxChunkSize int `json:"max_chunk_size"`
	// Params are shared parameters passed through to every node.
	Params map[string]any `json:"params"`
	// Async submits the pass to the job scheduler instead of waiting.
	Async bool `json:"async"`
}

// ExecuteGraphResponse is the synchronous execution result, with node
// outputs keyed by predictor identifier.
type ExecuteGraphResponse struct {
	PassID     string         `json:"pass_id"`
	Outputs    map[string]any `json:"outputs"`
	Sinks      map[string]any `json:"sinks"`
	DurationMS int64          `json:"duration_ms"`
}

// JobResponse describes a submitted or finished job.
type JobResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (s *Service) handleExecute(c *gin.Context) {
	var req ExecuteGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	name := c.Param("name")
	g, err := s.graphFor(name)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	sel := query.NewSelect(req.Collection)
	if len(req.Filter) > 0 {
		sel = sel.WithFilter(req.Filter)
	}
	if len(req.Fields) > 0 {
		sel = sel.WithFields(req.Fields...)
	}

	execReq := graph.ExecuteRequest{
		Data:         req.Data,
		Selection:    sel,
		IDs:          req.IDs,
		MaxChunkSize: req.MaxChunkSize,
		Params:       req.Params,
	}

	if req.Async {
		// The pass must outlive the request that submitted it.
		ctx := context.WithoutCancel(c.Request.Context())
		handle, err := jobs.SubmitPass(ctx, s.scheduler, name, s.executor, g, execReq)
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondAccepted(c, JobResponse{
			ID:     handle.ID().String(),
			Name:   handle.Name(),
			Status: string(handle.Status()),
		})
		return
	}

	start := time.Now()
	result, err := s.executor.Execute(c.Request.Context(), g, execReq)
	s.recordExecution(c, name, err, time.Since(start))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, toExecuteResponse(g, result))
}

func (s *Service) recordExecution(c *gin.Context, name string, err error, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		s.metrics.RecordError(c.Request.Context(), "execute", name)
	}
	s.metrics.RecordOperation(c.Request.Context(), s.name, "graph.execute", status, duration)
}

func (s *Service) handleGetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondWithError(c, apperrors.InvalidInput("id", "must be a UUID"))
		return
	}

	handle, ok := s.scheduler.Lookup(id)
	if !ok {
		RespondWithError(c, apperrors.NotFound("job", id.String()))
		return
	}

	resp := JobResponse{
		ID:     handle.ID().String(),
		Name:   handle.Name(),
		Status: string(handle.Status()),
	}
	select {
	case <-handle.Done():
		result, jobErr := handle.Result()
		if jobErr != nil {
			resp.Error = jobErr.Error()
		} else if passResult, ok := result.(*graph.Result); ok {
			if g, err := s.graphFor(handle.Name()); err == nil {
				resp.Result = toExecuteResponse(g, passResult)
			} else {
				resp.Result = passResult
			}
		} else {
			resp.Result = result
		}
	default:
	}
	RespondOK(c, resp)
}

func (s *Service) handleListPredictors(c *gin.Context) {
	RespondOK(c, s.registry.List())
}

func (s *Service) handleHealth(c *gin.Context) {
	health := observability.NewServiceHealth(s.name, version.Get().String())
	health.AddComponent(observability.Health{
		Name:   "predictor-registry",
		Status: registryStatus(s.registry),
	})
	RespondOK(c, health)
}

func (s *Service) handleVersion(c *gin.Context) {
	RespondOK(c, version.Get())
}

func (s *Service) handleMetrics(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, gin.H{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"goroutines": runtime.NumGoroutine(),
		"memory": gin.H{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"gc_runs":        m.NumGC,
		},
	})
}

// graphFor returns the built graph for a manifest name, building and
// caching it on first use.
func (s *Service) graphFor(name string) (*graph.Graph, error) {
	if cached, ok := s.graphs.Get(name); ok {
		return cached.(*graph.Graph), nil
	}

	manifest, err := s.loader.Load(name)
	if err != nil {
		return nil, err
	}
	g, err := manifest.Build(s.registry)
	if err != nil {
		return nil, err
	}

	s.graphs.Set(name, g, cache.DefaultExpiration)
	s.log.Debug("Graph built", map[string]interface{}{
		logger.FieldGraph: name,
		"nodes":           g.Len(),
	})
	return g, nil
}

func toExecuteResponse(g *graph.Graph, result *graph.Result) ExecuteGraphResponse {
	resp := ExecuteGraphResponse{
		PassID:     result.PassID,
		Outputs:    make(map[string]any, len(result.Outputs)),
		Sinks:      make(map[string]any, len(result.Sinks)),
		DurationMS: result.Duration.Milliseconds(),
	}
	for id, out := range result.Outputs {
		resp.Outputs[identifierOf(g, id)] = out
	}
	for id, out := range result.Sinks {
		resp.Sinks[identifierOf(g, id)] = out
	}
	return resp
}

func identifierOf(g *graph.Graph, id graph.NodeID) string {
	if node, ok := g.Node(id); ok {
		return node.Identifier()
	}
	return ""
}

func registryStatus(r *graph.PredictorRegistry) observability.HealthStatus {
	if len(r.List()) == 0 {
		return observability.HealthStatusDegraded
	}
	return observability.HealthStatusUp
}
