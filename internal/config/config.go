// Package config loads notesum configuration from the environment, reading a
// .env file first when one is present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration.
type Config struct {
	Server     ServerConfig
	Summarizer SummarizerConfig
	SMTP       SMTPConfig
	Log        LogConfig
}

// LogConfig holds logging settings. An empty File means stderr.
type LogConfig struct {
	Level string `envconfig:"NOTESUM_LOG_LEVEL" default:"info"`
	File  string `envconfig:"NOTESUM_LOG_FILE"`
}

// ServerConfig holds backend HTTP settings.
type ServerConfig struct {
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"PORT" default:"8000"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxUploadSize   string        `envconfig:"MAX_UPLOAD_SIZE" default:"10M"`
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Summarizer providers.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// SummarizerConfig selects and configures the LLM provider.
type SummarizerConfig struct {
	Provider     string `envconfig:"SUMMARIZER_PROVIDER" default:"gemini"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	GroqAPIKey   string `envconfig:"GROQ_API_KEY"`
	GroqBaseURL  string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	GroqModel    string `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
}

// Validate checks that the selected provider is known and has a key.
func (c SummarizerConfig) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required for provider %q", c.Provider)
		}
	default:
		return fmt.Errorf("unknown SUMMARIZER_PROVIDER %q", c.Provider)
	}
	return nil
}

// SMTPConfig holds outgoing mail settings. Missing credentials are reported
// per request rather than at startup.
type SMTPConfig struct {
	Host     string `envconfig:"SMTP_SERVER" default:"smtp.gmail.com"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	User     string `envconfig:"EMAIL_USER"`
	Password string `envconfig:"EMAIL_PASSWORD"`
}

// Load reads the given .env files (default ".env"; missing files are
// skipped) and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	sections := []struct {
		name string
		spec any
	}{
		{"server", &cfg.Server},
		{"summarizer", &cfg.Summarizer},
		{"smtp", &cfg.SMTP},
		{"log", &cfg.Log},
	}
	for _, s := range sections {
		if err := envconfig.Process("", s.spec); err != nil {
			return nil, fmt.Errorf("%s config: %w", s.name, err)
		}
	}
	return cfg, nil
}
