package challenge

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	outcomeSuccess        = "success"
	outcomeHTTPError      = "http_error"
	outcomeTransportError = "transport_error"
)

type instruments struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments(meter metric.Meter) (instruments, error) {
	requests, err := meter.Int64Counter(
		"challenge.requests",
		metric.WithDescription("Outbound challenge requests by step and outcome."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return instruments{}, err
	}

	duration, err := meter.Float64Histogram(
		"challenge.request.duration",
		metric.WithDescription("Latency of outbound challenge requests."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return instruments{}, err
	}

	return instruments{requests: requests, duration: duration}, nil
}

func (s *service) record(ctx context.Context, step, outcome string, latency time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("outcome", outcome),
	)
	s.inst.requests.Add(ctx, 1, attrs)
	s.inst.duration.Record(ctx, latency.Seconds(), attrs)
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
