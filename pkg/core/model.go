package core

import "time"

type Config struct {
	Environment string          `env:"ENVIRONMENT"`
	LogLevel    string          `env:"LOG_LEVEL"`
	Otel        OtelConfig      `envPrefix:"OTEL_"`
	Challenge   ChallengeConfig `envPrefix:"CHALLENGE_"`
}

type OtlpConfig struct {
	Endpoint string `env:"ENDPOINT"`
	Insecure bool   `env:"INSECURE"`
}

type OtelConfig struct {
	OtlpExporter OtlpConfig `envPrefix:"OTLP_EXPORTER_"`
	Disable      bool       `env:"DISABLE"`
}

type ChallengeConfig struct {
	// Fixed endpoint that hands out the webhook URL and its access token.
	GenerateWebhookURL string `env:"GENERATE_WEBHOOK_URL"`
	Name               string `env:"NAME"`
	RegNo              string `env:"REG_NO"`
	Email              string `env:"EMAIL"`
	// Zero leaves the HTTP client without a deadline.
	Timeout time.Duration `env:"TIMEOUT"`
}
