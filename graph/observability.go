package graph

import (
	"context"
	"time"

	"github.com/kbukum/modelgraph/logger"
	"github.com/kbukum/modelgraph/observability"
)

// WithTracing wraps a Predictor with OpenTelemetry span creation.
// Each invocation creates a span named "{prefix}.{identifier}".
func WithTracing(p Predictor, prefix string) Predictor {
	return &tracingPredictor{inner: p, prefix: prefix}
}

type tracingPredictor struct {
	inner  Predictor
	prefix string
}

func (t *tracingPredictor) Identifier() string { return t.inner.Identifier() }

func (t *tracingPredictor) Predict(ctx context.Context, req PredictRequest) (any, error) {
	spanName := t.prefix + "." + t.inner.Identifier()
	ctx, span := observability.StartSpan(ctx, spanName)
	defer span.End()

	observability.SetSpanAttribute(ctx, "graph.node", t.inner.Identifier())
	observability.SetSpanAttribute(ctx, "graph.dependencies", len(req.Dependencies))

	result, err := t.inner.Predict(ctx, req)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}

	return result, err
}

// WithMetrics wraps a Predictor with metric recording.
// Records operation count, duration, and errors per node.
func WithMetrics(p Predictor, metrics *observability.Metrics) Predictor {
	return &metricsPredictor{inner: p, metrics: metrics}
}

type metricsPredictor struct {
	inner   Predictor
	metrics *observability.Metrics
}

func (m *metricsPredictor) Identifier() string { return m.inner.Identifier() }

func (m *metricsPredictor) Predict(ctx context.Context, req PredictRequest) (any, error) {
	start := time.Now()
	result, err := m.inner.Predict(ctx, req)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.RecordError(ctx, "predict", m.inner.Identifier())
	}
	m.metrics.RecordOperation(ctx, m.inner.Identifier(), "graph.predict", status, duration)

	return result, err
}

// WithLogging wraps a Predictor with invocation logging.
// Logs node identifier, duration, and success/error status.
func WithLogging(p Predictor, log *logger.Logger) Predictor {
	return &loggingPredictor{inner: p, log: log}
}

type loggingPredictor struct {
	inner Predictor
	log   *logger.Logger
}

func (l *loggingPredictor) Identifier() string { return l.inner.Identifier() }

func (l *loggingPredictor) Predict(ctx context.Context, req PredictRequest) (any, error) {
	start := time.Now()
	result, err := l.inner.Predict(ctx, req)
	duration := time.Since(start)

	if err != nil {
		l.log.Error("predict failed", logger.Fields(
			logger.FieldNode, l.inner.Identifier(),
			logger.FieldDuration, duration.Milliseconds(),
			logger.FieldError, err.Error(),
		))
		return result, err
	}

	l.log.Debug("predict completed", logger.Fields(
		logger.FieldNode, l.inner.Identifier(),
		logger.FieldDuration, duration.Milliseconds(),
	))
	return result, err
}
