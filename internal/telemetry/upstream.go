package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const upstreamMeterName = "github.com/ntpc-opendata/ntpc-opendata/internal/opendata"

// UpstreamMetrics records calls made to the open-data portal.
type UpstreamMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	rowsSkipped     metric.Int64Counter
}

// NewUpstreamMetrics creates the upstream instruments on the global meter provider.
func NewUpstreamMetrics() (*UpstreamMetrics, error) {
	meter := otel.Meter(upstreamMeterName)

	requestDuration, err := meter.Float64Histogram(
		"opendata.request.duration",
		metric.WithDescription("Duration of open-data upstream requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"opendata.request.total",
		metric.WithDescription("Total number of open-data upstream requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	rowsSkipped, err := meter.Int64Counter(
		"opendata.rows.skipped",
		metric.WithDescription("Number of upstream rows dropped by record validation"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, err
	}

	return &UpstreamMetrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		rowsSkipped:     rowsSkipped,
	}, nil
}

// RecordRequest records one upstream round trip. status is 0 when no response arrived.
func (m *UpstreamMetrics) RecordRequest(ctx context.Context, method, resource string, status int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("opendata.resource", resource),
		attribute.String("http.status_code", strconv.Itoa(status)),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Detach from the request context so a cancelled call is still counted
	ctx = context.WithoutCancel(ctx)
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSkipped records rows dropped while decoding a dataset.
func (m *UpstreamMetrics) RecordSkipped(ctx context.Context, resource string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rowsSkipped.Add(context.WithoutCancel(ctx), int64(n),
		metric.WithAttributes(attribute.String("opendata.resource", resource)))
}
