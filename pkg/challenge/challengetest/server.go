// Package challengetest runs an in-process fake of the challenge API: the
// generate-webhook endpoint and the webhook it hands out.
package challengetest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	slogfiber "github.com/samber/slog-fiber"
)

const (
	GeneratePath = "/hiring/generateWebhook/GO"
	WebhookPath  = "/hiring/testWebhook/GO"

	DefaultAccessToken = "T"
	DefaultSubmitBody  = `{"success":true,"message":"Webhook processed successfully"}`
)

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type Server struct {
	// URL is the base URL, e.g. http://127.0.0.1:53211.
	URL string

	app *fiber.App
	cfg config

	mu       sync.Mutex
	requests []Request
}

type config struct {
	generateStatus int
	generateBody   string
	accessToken    string
	webhookURL     string
	submitStatus   int
	submitBody     string
	logger         *slog.Logger
}

type Option func(*config)

// WithGenerateResponse replaces the generate-webhook answer with a fixed
// status and raw body.
func WithGenerateResponse(status int, body string) Option {
	return func(c *config) {
		c.generateStatus = status
		c.generateBody = body
	}
}

func WithAccessToken(token string) Option {
	return func(c *config) {
		c.accessToken = token
	}
}

// WithWebhookURL makes the generate endpoint hand out url instead of the
// server's own webhook.
func WithWebhookURL(url string) Option {
	return func(c *config) {
		c.webhookURL = url
	}
}

func WithSubmitResponse(status int, body string) Option {
	return func(c *config) {
		c.submitStatus = status
		c.submitBody = body
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// NewServer starts the fake on a loopback port and stops it when t ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	cfg := config{
		generateStatus: http.StatusOK,
		accessToken:    DefaultAccessToken,
		submitStatus:   http.StatusOK,
		submitBody:     DefaultSubmitBody,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &Server{
		URL: "http://" + ln.Addr().String(),
		cfg: cfg,
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(otelfiber.Middleware())
	app.Use(slogfiber.NewWithConfig(cfg.logger, slogfiber.Config{
		WithRequestID: true,
		WithSpanID:    true,
		WithTraceID:   true,
	}))
	app.Use(s.recordRequest)

	app.Post(GeneratePath, s.generateWebhook)
	app.Post(WebhookPath, s.submitSolution)

	s.app = app

	go func() {
		_ = app.Listener(ln)
	}()

	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	return s
}

func (s *Server) GenerateURL() string {
	return s.URL + GeneratePath
}

func (s *Server) WebhookURL() string {
	if s.cfg.webhookURL != "" {
		return s.cfg.webhookURL
	}
	return s.URL + WebhookPath
}

// Requests returns every request received so far, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo filters Requests by path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) recordRequest(c *fiber.Ctx) error {
	header := http.Header{}
	c.Request().Header.VisitAll(func(key, value []byte) {
		header.Add(string(key), string(value))
	})

	// fasthttp reuses the body buffer once the handler returns
	body := append([]byte(nil), c.Body()...)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Method(),
		Path:   c.Path(),
		Header: header,
		Body:   body,
	})
	s.mu.Unlock()

	return c.Next()
}

func (s *Server) generateWebhook(c *fiber.Ctx) error {
	if s.cfg.generateBody != "" || s.cfg.generateStatus != http.StatusOK {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(s.cfg.generateStatus).SendString(s.cfg.generateBody)
	}

	var identity struct {
		Name  string `json:"name"`
		RegNo string `json:"regNo"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(c.Body(), &identity); err != nil || identity.RegNo == "" {
		return c.Status(fiber.StatusBadRequest).SendString("invalid identity")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"webhook":     s.WebhookURL(),
		"accessToken": s.cfg.accessToken,
	})
}

func (s *Server) submitSolution(c *fiber.Ctx) error {
	return c.Status(s.cfg.submitStatus).SendString(s.cfg.submitBody)
}
