package challenge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

type RunnerOptions struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	// Overridable clock for token expiry logging.
	Now func() time.Time
}

// Runner performs the challenge once: generate webhook, build query, submit.
type Runner struct {
	svc      Service
	identity IdentityRequest
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewRunner(svc Service, identity IdentityRequest, opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Runner{
		svc:      svc,
		identity: identity,
		logger:   logger.With(slog.String("component", "runner")),
		tracer:   tp.Tracer(instrumentationName),
		now:      now,
	}
}

// Run executes the workflow. A failed first step aborts before the webhook is
// contacted. Every failure has already been logged when Run returns it.
func (r *Runner) Run(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "challenge.run",
		trace.WithAttributes(attribute.String("challenge.reg_no", r.identity.RegNo)),
	)
	defer span.End()

	r.logger.Info("starting webhook challenge")

	creds, err := r.svc.GenerateWebhook(ctx, r.identity)
	if err != nil {
		r.logger.Error("aborting: no webhook credentials", slog.Any("error", err))
		failSpan(span, err)
		return fmt.Errorf("generate webhook: %w", err)
	}

	r.logToken(creds.AccessToken)

	if question, ok := QuestionFor(r.identity.RegNo); ok && question != SolvedQuestion {
		r.logger.Warn("registration number is assigned a different question",
			slog.String("reg_no", r.identity.RegNo),
			slog.Int("assigned_question", question),
			slog.Int("solved_question", SolvedQuestion),
		)
	}

	query := FinalQuery()
	r.logger.Info("final SQL query formulated", slog.String("query", query))

	result, err := r.svc.SubmitSolution(ctx, creds, SolutionSubmission{FinalQuery: query})
	if err != nil {
		r.logger.Error("challenge submission failed", slog.Any("error", err))
		failSpan(span, err)
		return fmt.Errorf("submit solution: %w", err)
	}

	r.logger.Info("webhook challenge completed", slog.Int("status", result.StatusCode))
	return nil
}

func (r *Runner) logToken(raw string) {
	info, ok := InspectToken(raw)
	if !ok {
		return
	}

	attrs := []any{
		slog.String("issuer", info.Issuer),
		slog.String("subject", info.Subject),
	}
	if !info.Expiration.IsZero() {
		attrs = append(attrs, slog.Time("expires_at", info.Expiration))
	}

	if info.Expired(r.now()) {
		r.logger.Warn("access token already expired", attrs...)
		return
	}
	r.logger.Debug("access token claims", attrs...)
}

// ExitStatus maps the outcome of Run to a process exit code.
func ExitStatus(err error) int {
	if err != nil {
		return ExitFailure
	}
	return ExitSuccess
}
