package core

import "time"

func WithEnvironment(environment string) func(*Config) {
	return func(c *Config) {
		c.Environment = environment
	}
}

func WithLogLevel(level string) func(*Config) {
	return func(c *Config) {
		c.LogLevel = level
	}
}

func WithOtlpEndpoint(endpoint string) func(*Config) {
	return func(c *Config) {
		c.Otel.OtlpExporter.Endpoint = endpoint
	}
}

func WithOtlpInsecure(insecure bool) func(*Config) {
	return func(c *Config) {
		c.Otel.OtlpExporter.Insecure = insecure
	}
}

func WithOtelDisable(value ...bool) func(*Config) {
	val := true
	if len(value) > 0 {
		val = value[0]
	}

	return func(c *Config) {
		c.Otel.Disable = val
	}
}

func WithGenerateWebhookURL(url string) func(*Config) {
	return func(c *Config) {
		c.Challenge.GenerateWebhookURL = url
	}
}

func WithIdentity(name, regNo, email string) func(*Config) {
	return func(c *Config) {
		c.Challenge.Name = name
		c.Challenge.RegNo = regNo
		c.Challenge.Email = email
	}
}

func WithChallengeTimeout(timeout time.Duration) func(*Config) {
	return func(c *Config) {
		c.Challenge.Timeout = timeout
	}
}
