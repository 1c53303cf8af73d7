// Package config loads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/janisto/greet-playground/internal/service/greeter"
)

const (
	DefaultPort           = "8080"
	DefaultGreeterTimeout = 5 * time.Second

	FormatJSON = "json"
	FormatCBOR = "cbor"

	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	Port           string
	GreeterURL     string
	GreeterTimeout time.Duration
	GreeterFormat  string
	GreetingFormat string
	StaticDir      string
	SubmitGuard    bool
}

// Load reads an optional .env file from the working directory and then
// parses the environment. Variables already set in the environment win over
// the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv parses the settings using lookup, which has the signature of
// os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		Port:           get("PORT", DefaultPort),
		GreeterURL:     strings.TrimRight(get("GREETER_URL", ""), "/"),
		GreeterFormat:  strings.ToLower(get("GREETER_FORMAT", FormatJSON)),
		GreetingFormat: greeter.DefaultFormat,
		StaticDir:      get("STATIC_DIR", ""),
		SubmitGuard:    true,
	}
	// The greeting format is taken verbatim so leading spaces survive.
	if v, ok := lookup("GREETING_FORMAT"); ok && v != "" {
		cfg.GreetingFormat = v
	}

	var errs []error
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT: %q is not a number", cfg.Port))
	}

	cfg.GreeterTimeout = DefaultGreeterTimeout
	if raw := get("GREETER_TIMEOUT", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("GREETER_TIMEOUT: %w", err))
		case d <= 0:
			errs = append(errs, fmt.Errorf("GREETER_TIMEOUT: must be positive, got %s", d))
		default:
			cfg.GreeterTimeout = d
		}
	}

	if cfg.GreeterFormat != FormatJSON && cfg.GreeterFormat != FormatCBOR {
		errs = append(errs, fmt.Errorf("GREETER_FORMAT: want %q or %q, got %q", FormatJSON, FormatCBOR, cfg.GreeterFormat))
	}

	if cfg.GreeterURL != "" {
		u, err := url.Parse(cfg.GreeterURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("GREETER_URL: %q is not an absolute http(s) URL", cfg.GreeterURL))
		}
	}

	if raw := get("SUBMIT_GUARD", ""); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("SUBMIT_GUARD: %w", err))
		} else {
			cfg.SubmitGuard = b
		}
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// GreeterMode reports whether submissions are answered in process or
// forwarded to GreeterURL.
func (c Config) GreeterMode() string {
	if c.GreeterURL == "" {
		return ModeLocal
	}
	return ModeRemote
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// NewGreeter builds the collaborator selected by the configuration.
func (c Config) NewGreeter(userAgent string) (greeter.Service, error) {
	if c.GreeterURL == "" {
		return greeter.NewLocal(c.GreetingFormat)
	}
	opts := []greeter.Option{greeter.WithBaseURL(c.GreeterURL)}
	if c.GreeterFormat == FormatCBOR {
		opts = append(opts, greeter.WithCBOR())
	}
	if userAgent != "" {
		opts = append(opts, greeter.WithUserAgent(userAgent))
	}
	return greeter.NewClient(&http.Client{Timeout: c.GreeterTimeout}, opts...), nil
}
