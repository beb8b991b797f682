package core

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	defaultConfigEnvironment = "development"
	defaultLogLevel          = "info"

	defaultOtelDisable          = true
	defaultOTLPExporterEndpoint = "localhost:4317"
	defaultOTLPInsecure         = true

	defaultGenerateWebhookURL = "https://bfhldevapigw.healthrx.co.in/hiring/generateWebhook/JAVA"
	defaultChallengeName      = "Shivam Dua"
	defaultChallengeRegNo     = "22BCE2466"
	defaultChallengeEmail     = "shivam.dua2022@vitstudent.ac.in"
	defaultChallengeTimeout   = 0
)

func DefaultConfig() Config {
	return Config{
		Environment: defaultConfigEnvironment,
		LogLevel:    defaultLogLevel,
		Otel: OtelConfig{
			Disable: defaultOtelDisable,
			OtlpExporter: OtlpConfig{
				Endpoint: defaultOTLPExporterEndpoint,
				Insecure: defaultOTLPInsecure,
			},
		},
		Challenge: ChallengeConfig{
			GenerateWebhookURL: defaultGenerateWebhookURL,
			Name:               defaultChallengeName,
			RegNo:              defaultChallengeRegNo,
			Email:              defaultChallengeEmail,
			Timeout:            defaultChallengeTimeout,
		},
	}
}

func NewConfig(options ...func(*Config)) Config {
	config := DefaultConfig()
	for _, opt := range options {
		opt(&config)
	}
	return config
}

// NewConfigFromEnv overlays the process environment on DefaultConfig. Unset
// variables keep their defaults. Options are applied last so callers can pin
// values regardless of the environment.
func NewConfigFromEnv(options ...func(*Config)) (Config, error) {
	config := DefaultConfig()

	var errs error
	if err := env.Parse(&config); err != nil {
		errs = errors.Join(errs, fmt.Errorf("error parsing env: %w", err))
	}

	for _, opt := range options {
		opt(&config)
	}

	return config, errs
}

func LoadEnv(environment ...string) error {
	filenames := []string{
		".env.local",
		".env",
	}

	current := getEnv("ENVIRONMENT", DefaultConfig().Environment)
	if len(environment) > 0 {
		current = environment[0]
	}

	if current != "" {
		file := ".env." + current + ".local"
		filenames = append([]string{file}, filenames...)
	}

	var errs error

	for _, filename := range filenames {
		err := loadEnvFile(filename)
		if err != nil {
			errs = errors.Join(
				errs,
				fmt.Errorf("error loading %s: %w", filename, err),
			)
		}
	}

	return errs
}
