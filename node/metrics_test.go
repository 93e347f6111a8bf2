package node

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"testing"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	found := map[string]metricdata.Metrics{}
	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != instrumentationName {
			continue
		}
		for _, m := range scope.Metrics {
			found[m.Name] = m
		}
	}
	return found
}

func TestNode_AtomicMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	n, _ := testNode(t, WithName("metered"), WithMeter(provider.Meter(instrumentationName)))

	_, err := n.Atomic(context.Background(), "k", func(ctx context.Context) (any, error) {
		return "ok", nil
	}).AwaitTimeout(testTimeout)
	require.NoError(t, err)
	_, err = n.Atomic(context.Background(), "k", func(ctx context.Context) (any, error) {
		return nil, errors.New("boom")
	}).AwaitTimeout(testTimeout)
	require.Error(t, err)

	found := collect(t, reader)
	require.Contains(t, found, MetricAtomicSubmitted)
	require.Contains(t, found, MetricAtomicCompleted)
	require.Contains(t, found, MetricAtomicDuration)

	submitted, ok := found[MetricAtomicSubmitted].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, submitted.DataPoints, 1)
	assert.Equal(t, int64(2), submitted.DataPoints[0].Value)
	node, _ := submitted.DataPoints[0].Attributes.Value("node")
	assert.Equal(t, "metered", node.AsString())

	completed, ok := found[MetricAtomicCompleted].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	outcomes := map[string]int64{}
	for _, dp := range completed.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		outcomes[outcome.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"ok": 1, "error": 1}, outcomes)

	duration, ok := found[MetricAtomicDuration].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range duration.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestNode_AtomicMetrics_SkippedNotCompleted(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	n, _ := testNode(t, WithMeter(provider.Meter(instrumentationName)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := n.Atomic(ctx, "k", func(ctx context.Context) (any, error) {
		return nil, nil
	}).AwaitTimeout(testTimeout)
	require.ErrorIs(t, err, context.Canceled)

	found := collect(t, reader)
	assert.Contains(t, found, MetricAtomicSubmitted)
	assert.NotContains(t, found, MetricAtomicCompleted, "Skipped operations should not be counted as completed")
}
