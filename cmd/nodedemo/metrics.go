package main

import (
	"context"
	"fmt"
	"github.com/saylorsolutions/eventnode/cli"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"strings"
)

func printMetrics(ctx context.Context, reader *sdkmetric.ManualReader, out *cli.Printer) error {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return fmt.Errorf("collecting metrics: %w", err)
	}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out.Printf("%s{%s} %d\n", m.Name, formatAttrs(dp.Attributes), dp.Value)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					out.Printf("%s{%s} count=%d sum=%.3f%s\n", m.Name, formatAttrs(dp.Attributes), dp.Count, dp.Sum, m.Unit)
				}
			}
		}
	}
	return nil
}

func formatAttrs(set attribute.Set) string {
	parts := make([]string, 0, set.Len())
	iter := set.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
	}
	return strings.Join(parts, ",")
}
