package node

import (
	"context"
	"github.com/saylorsolutions/eventnode/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"time"
)

const instrumentationName = "github.com/saylorsolutions/eventnode/node"

const (
	MetricAtomicSubmitted = "eventnode.atomic.submitted"
	MetricAtomicCompleted = "eventnode.atomic.completed"
	MetricAtomicDuration  = "eventnode.atomic.duration"
)

type atomicMetrics struct {
	submitted metric.Int64Counter
	completed metric.Int64Counter
	duration  metric.Float64Histogram
}

func newAtomicMetrics(meter metric.Meter) (*atomicMetrics, error) {
	var (
		m    = new(atomicMetrics)
		errs = assert.CollectErrors("; ")
		err  error
	)
	m.submitted, err = meter.Int64Counter(MetricAtomicSubmitted,
		metric.WithDescription("Operations submitted to an atomic queue"),
		metric.WithUnit("{operation}"),
	)
	errs.Add(err)
	m.completed, err = meter.Int64Counter(MetricAtomicCompleted,
		metric.WithDescription("Operations that ran to completion in an atomic queue"),
		metric.WithUnit("{operation}"),
	)
	errs.Add(err)
	m.duration, err = meter.Float64Histogram(MetricAtomicDuration,
		metric.WithDescription("Time an atomic operation spent running"),
		metric.WithUnit("ms"),
	)
	errs.Add(err)
	return m, errs.Result()
}

func (m *atomicMetrics) recordSubmit(ctx context.Context, node, key string) {
	m.submitted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("node", node),
		attribute.String("key", key),
	))
}

func (m *atomicMetrics) recordComplete(ctx context.Context, node, key string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("node", node),
		attribute.String("key", key),
		attribute.String("outcome", outcome),
	)
	m.completed.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}
