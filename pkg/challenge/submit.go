package challenge

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// SubmitSolution posts the final query to the webhook, authorized with the
// raw access token. The response body is logged whatever the status.
func (s *service) SubmitSolution(ctx context.Context, creds WebhookCredentials, submission SolutionSubmission) (SubmissionResult, error) {
	ctx, span := s.tracer.Start(ctx, "challenge.submit_solution")
	defer span.End()

	log := s.logger.With(
		slog.String("step", stepSubmit),
		slog.String("webhook", creds.Webhook),
	)

	if err := creds.Validate(); err != nil {
		log.Error("webhook credentials invalid", slog.Any("error", err))
		failSpan(span, err)
		return SubmissionResult{}, err
	}
	if strings.TrimSpace(submission.FinalQuery) == "" {
		log.Error("final query is empty")
		failSpan(span, ErrEmptyQuery)
		return SubmissionResult{}, ErrEmptyQuery
	}

	header := http.Header{}
	header.Set(authHeader, creds.AccessToken)

	log.Info("submitting solution")

	ex, err := s.postJSON(ctx, log, stepSubmit, strings.TrimSpace(creds.Webhook), acceptAny, header, submission)
	if err != nil {
		failSpan(span, err)
		return SubmissionResult{}, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", ex.StatusCode))

	result := SubmissionResult{
		StatusCode: ex.StatusCode,
		Status:     ex.Status,
		Body:       string(ex.Body),
	}

	if !ex.ok() {
		statusErr := newStatusError(stepSubmit, ex)
		log.Error("solution submission failed",
			slog.Int("status", ex.StatusCode),
			slog.String("response_body", result.Body),
		)
		failSpan(span, statusErr)
		return result, statusErr
	}

	log.Info("solution submitted",
		slog.Int("status", ex.StatusCode),
		slog.String("response_body", result.Body),
	)

	return result, nil
}
