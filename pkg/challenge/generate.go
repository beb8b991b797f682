package challenge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
)

// GenerateWebhook registers the identity and returns the webhook URL and
// access token to submit against.
func (s *service) GenerateWebhook(ctx context.Context, identity IdentityRequest) (WebhookCredentials, error) {
	ctx, span := s.tracer.Start(ctx, "challenge.generate_webhook")
	defer span.End()

	log := s.logger.With(
		slog.String("step", stepGenerate),
		slog.String("generate_webhook_url", s.cfg.GenerateWebhookURL),
	)

	if err := identity.Validate(); err != nil {
		log.Error("identity request invalid", slog.Any("error", err))
		failSpan(span, err)
		return WebhookCredentials{}, err
	}

	log.Info("sending generate webhook request", slog.String("reg_no", identity.RegNo))

	ex, err := s.postJSON(ctx, log, stepGenerate, s.cfg.GenerateWebhookURL, applicationJSON, nil, identity)
	if err != nil {
		failSpan(span, err)
		return WebhookCredentials{}, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", ex.StatusCode))

	if !ex.ok() {
		statusErr := newStatusError(stepGenerate, ex)
		log.Error("generate webhook non-2xx",
			slog.Int("status", ex.StatusCode),
			slog.String("body_snippet", statusErr.Body),
		)
		failSpan(span, statusErr)
		return WebhookCredentials{}, statusErr
	}

	var creds WebhookCredentials
	if err := json.Unmarshal(ex.Body, &creds); err != nil {
		err = fmt.Errorf("%w: decode generate webhook response: %w", ErrMalformedResponse, err)
		log.Error("generate webhook decode failed",
			slog.Any("error", err),
			slog.String("body_snippet", snippet(ex.Body)),
		)
		failSpan(span, err)
		return WebhookCredentials{}, err
	}

	if err := creds.Validate(); err != nil {
		log.Error("failed to retrieve webhook URL or access token", slog.Any("error", err))
		failSpan(span, err)
		return WebhookCredentials{}, err
	}

	log.Info("webhook received", slog.String("webhook", creds.Webhook))
	log.Info("access token received", slog.String("access_token_prefix", prefix(creds.AccessToken, 8)))

	return creds, nil
}
