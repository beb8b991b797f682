package challenge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DSACMS/challenge-runner/pkg/core"
	"github.com/DSACMS/challenge-runner/pkg/httpclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	applicationJSON = "application/json"
	acceptAny       = "text/plain, application/json, */*"
	authHeader      = "Authorization"

	stepGenerate = "generate_webhook"
	stepSubmit   = "submit_solution"

	maxErrBodyLogBytes = 800

	instrumentationName = "github.com/DSACMS/challenge-runner/pkg/challenge"
)

type Service interface {
	GenerateWebhook(ctx context.Context, identity IdentityRequest) (WebhookCredentials, error)
	SubmitSolution(ctx context.Context, creds WebhookCredentials, submission SolutionSubmission) (SubmissionResult, error)
}

type HTTPTransport interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	// Override for testing the HTTP client
	HTTPClient HTTPTransport
	// Structured logger using slog package
	Logger *slog.Logger
	// Per-request timeout, used when the caller's context has no deadline.
	// Falls back to the config timeout.
	Timeout time.Duration

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// Injects trace context into outbound requests.
	Propagator propagation.TextMapPropagator
}

type service struct {
	cfg        *core.ChallengeConfig
	client     HTTPTransport
	logger     *slog.Logger
	timeout    time.Duration
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	inst       instruments
}

var _ Service = (*service)(nil)

func New(cfg *core.ChallengeConfig, opts Options) (Service, error) {
	if cfg == nil {
		return nil, ErrMissingConfig
	}
	if strings.TrimSpace(cfg.GenerateWebhookURL) == "" {
		return nil, errors.New("cfg.GenerateWebhookURL is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "challenge"))

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = cfg.Timeout
	}

	client := opts.HTTPClient
	if client == nil {
		client = httpclient.HeaderPreservingClient(timeout)
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	propagator := opts.Propagator
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}

	inst, err := newInstruments(mp.Meter(instrumentationName))
	if err != nil {
		return nil, fmt.Errorf("create instruments: %w", err)
	}

	return &service{
		cfg:        cfg,
		client:     client,
		logger:     logger,
		timeout:    timeout,
		tracer:     tp.Tracer(instrumentationName),
		propagator: propagator,
		inst:       inst,
	}, nil
}

// prefix returns at most n bytes of s followed by an ellipsis. Values that
// fit within n are masked entirely so a short secret is never echoed.
func prefix(s string, n int) string {
	if n <= 0 || s == "" {
		return ""
	}
	if len(s) <= n {
		return "…"
	}
	return truncate(s, n) + "…"
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrBodyLogBytes {
		s = truncate(s, maxErrBodyLogBytes) + "..."
	}
	return s
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
