package challenge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/propagation"
)

// exchange is one completed request/response pair.
type exchange struct {
	StatusCode  int
	Status      string
	ContentType string
	Body        []byte
	Latency     time.Duration
}

func (e exchange) ok() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

// postJSON marshals payload, POSTs it and reads the whole response. A non-2xx
// status is not an error here; callers decide what it means for their step.
func (s *service) postJSON(
	ctx context.Context,
	log *slog.Logger,
	step string,
	endpoint string,
	accept string,
	header http.Header,
	payload any,
) (exchange, error) {
	if s.timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("marshal request body failed", slog.Any("error", err))
		return exchange{}, fmt.Errorf("marshal %s body: %w", step, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error("create request failed", slog.Any("error", err))
		return exchange{}, fmt.Errorf("create %s request: %w", step, err)
	}

	req.Header.Set("Content-Type", applicationJSON)
	req.Header.Set("Accept", accept)
	for key, values := range header {
		req.Header[key] = values
	}
	s.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	log.Debug("request prepared",
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("path", req.URL.Path),
	)

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		s.record(ctx, step, outcomeTransportError, latency)
		log.Error("request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return exchange{Latency: latency}, fmt.Errorf("%s request: %w", step, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		s.record(ctx, step, outcomeTransportError, latency)
		log.Error("read response body failed",
			slog.Int("status", resp.StatusCode),
			slog.Any("error", err),
		)
		return exchange{Latency: latency}, fmt.Errorf("read %s response: %w", step, err)
	}

	ex := exchange{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBytes,
		Latency:     latency,
	}

	outcome := outcomeSuccess
	if !ex.ok() {
		outcome = outcomeHTTPError
	}
	s.record(ctx, step, outcome, latency)

	log.Info("response received",
		slog.Int("status", ex.StatusCode),
		slog.String("content_type", ex.ContentType),
		slog.Duration("latency", latency),
	)

	return ex, nil
}
