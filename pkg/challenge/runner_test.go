package challenge

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/DSACMS/challenge-runner/pkg/challenge/challengetest"
	"github.com/DSACMS/challenge-runner/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRunner(t *testing.T, srv *challengetest.Server, logger *slog.Logger, opts Options) *Runner {
	t.Helper()

	cfg := &core.ChallengeConfig{
		GenerateWebhookURL: srv.GenerateURL(),
		Timeout:            5 * time.Second,
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}

	svc, err := New(cfg, opts)
	require.NoError(t, err)

	return NewRunner(svc, testIdentity(), RunnerOptions{
		Logger:         logger,
		TracerProvider: opts.TracerProvider,
	})
}

func TestRun_SubmitsQueryToReceivedWebhook(t *testing.T) {
	srv := challengetest.NewServer(t)
	runner := newRunner(t, srv, discardLogger(), Options{})

	err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, ExitStatus(err))

	generated := srv.RequestsTo(challengetest.GeneratePath)
	require.Len(t, generated, 1)

	var identity IdentityRequest
	require.NoError(t, json.Unmarshal(generated[0].Body, &identity))
	assert.Equal(t, testIdentity(), identity)

	submitted := srv.RequestsTo(challengetest.WebhookPath)
	require.Len(t, submitted, 1, "exactly one POST to the webhook")

	hook := submitted[0]
	assert.Equal(t, http.MethodPost, hook.Method)
	assert.Equal(t, challengetest.DefaultAccessToken, hook.Header.Get("Authorization"))

	var submission SolutionSubmission
	require.NoError(t, json.Unmarshal(hook.Body, &submission))
	assert.Equal(t, SQLQuery, submission.FinalQuery)
}

func TestRun_GenerateNon2xxSkipsWebhook(t *testing.T) {
	srv := challengetest.NewServer(t,
		challengetest.WithGenerateResponse(http.StatusInternalServerError, `{"error":"down"}`),
	)
	runner := newRunner(t, srv, discardLogger(), Options{})

	err := runner.Run(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, ExitFailure, ExitStatus(err))

	assert.Len(t, srv.RequestsTo(challengetest.GeneratePath), 1)
	assert.Empty(t, srv.RequestsTo(challengetest.WebhookPath), "no request may reach a second endpoint")
}

func TestRun_MissingAccessTokenSkipsWebhook(t *testing.T) {
	// a separate fake owns the webhook so a stray submission would be recorded
	hook := challengetest.NewServer(t)

	srv := challengetest.NewServer(t,
		challengetest.WithGenerateResponse(http.StatusOK, `{"webhook":"`+hook.WebhookURL()+`"}`),
	)
	runner := newRunner(t, srv, discardLogger(), Options{})

	err := runner.Run(context.Background())

	require.ErrorIs(t, err, ErrMissingCredentials)
	assert.Equal(t, ExitFailure, ExitStatus(err))
	assert.Empty(t, hook.Requests())
	assert.Empty(t, srv.RequestsTo(challengetest.WebhookPath))
}

func TestRun_MalformedGenerateResponseSkipsWebhook(t *testing.T) {
	srv := challengetest.NewServer(t,
		challengetest.WithGenerateResponse(http.StatusOK, `{"webhook":`),
	)
	runner := newRunner(t, srv, discardLogger(), Options{})

	err := runner.Run(context.Background())

	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.Empty(t, srv.RequestsTo(challengetest.WebhookPath))
}

func TestRun_WebhookNon2xxIsLoggedAndReturned(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	srv := challengetest.NewServer(t,
		challengetest.WithSubmitResponse(http.StatusBadRequest, `{"success":false,"message":"wrong answer"}`),
	)
	runner := newRunner(t, srv, logger, Options{})

	var err error
	require.NotPanics(t, func() {
		err = runner.Run(context.Background())
	})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, ExitFailure, ExitStatus(err))

	require.Len(t, srv.RequestsTo(challengetest.WebhookPath), 1)

	logs := buf.String()
	assert.Contains(t, logs, `"status":400`)
	assert.Contains(t, logs, `wrong answer`)
}

func TestRun_UnreachableWebhook(t *testing.T) {
	srv := challengetest.NewServer(t,
		challengetest.WithWebhookURL("http://127.0.0.1:1/hiring/testWebhook/GO"),
	)
	runner := newRunner(t, srv, discardLogger(), Options{})

	err := runner.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "submit solution")
}

func TestRun_PropagatesTraceContext(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.Empty()),
		sdktrace.WithSpanProcessor(rec),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	srv := challengetest.NewServer(t)
	runner := newRunner(t, srv, discardLogger(), Options{
		TracerProvider: tp,
		Propagator:     propagation.TraceContext{},
	})

	require.NoError(t, runner.Run(context.Background()))

	for _, r := range srv.Requests() {
		assert.NotEmptyf(t, r.Header.Get("Traceparent"), "request to %s should carry traceparent", r.Path)
	}

	names := map[string]bool{}
	for _, span := range rec.Ended() {
		names[span.Name()] = true
	}
	assert.True(t, names["challenge.run"])
	assert.True(t, names["challenge.generate_webhook"])
	assert.True(t, names["challenge.submit_solution"])
}

func TestRun_WarnsOnOddRegistrationNumber(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	srv := challengetest.NewServer(t)
	svc, err := New(&core.ChallengeConfig{GenerateWebhookURL: srv.GenerateURL()}, Options{Logger: logger})
	require.NoError(t, err)

	identity := testIdentity()
	identity.RegNo = "22BCE2467"

	runner := NewRunner(svc, identity, RunnerOptions{Logger: logger})
	require.NoError(t, runner.Run(context.Background()))

	assert.Contains(t, buf.String(), "registration number is assigned a different question")
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 0, ExitStatus(nil))
	assert.Equal(t, 1, ExitStatus(ErrMissingCredentials))
}
