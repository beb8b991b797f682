package challenge

import (
	"fmt"
	"net/url"
	"strings"
)

// WebhookCredentials is the generate-webhook response. Both fields are
// required before a submission can be addressed and authorized.
type WebhookCredentials struct {
	Webhook     string `json:"webhook"`
	AccessToken string `json:"accessToken"`
}

func (c WebhookCredentials) Validate() error {
	if strings.TrimSpace(c.Webhook) == "" {
		return fmt.Errorf("%w: webhook is missing", ErrMissingCredentials)
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		return fmt.Errorf("%w: accessToken is missing", ErrMissingCredentials)
	}

	u, err := url.Parse(strings.TrimSpace(c.Webhook))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWebhookURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not an absolute http(s) URL", ErrInvalidWebhookURL, c.Webhook)
	}

	return nil
}

// SubmissionResult is what the webhook answered. The body is opaque.
type SubmissionResult struct {
	StatusCode int
	Status     string
	Body       string
}
