package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Provider owns an in-process meter provider whose totals can be read back
// at the end of a run. When disabled every call is a no-op.
type Provider struct {
	enabled  bool
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

func NewProvider(enabled bool) *Provider {
	p := &Provider{enabled: enabled}
	if !enabled {
		return p
	}
	p.reader = sdkmetric.NewManualReader()
	p.provider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(p.reader))
	return p
}

// Meter returns a meter with the given name for creating metrics.
func (p *Provider) Meter(name string) metric.Meter {
	if p == nil || !p.enabled {
		return noop.Meter{}
	}
	return p.provider.Meter(name)
}

// Install makes the provider the process-wide meter provider, so Global
// records into it. A disabled provider leaves the global untouched.
func (p *Provider) Install() {
	if p == nil || !p.enabled {
		return
	}
	otel.SetMeterProvider(p.provider)
}

// Totals sums every int64 counter by metric name.
func (p *Provider) Totals(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	if p == nil || !p.enabled {
		return out, nil
	}
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("telemetry: collect: %w", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[m.Name] += dp.Value
			}
		}
	}
	return out, nil
}

func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || !p.enabled {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
