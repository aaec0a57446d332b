package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence (later wins). An empty path skips
// the file.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides(newEnvironment())

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate performs the minimal checks needed to run. Accounts are not
// checked here; they are parsed separately so that a missing or malformed
// account list can be reported on its own.
func Validate(cfg *Config) error {
	if err := validateHTTPURL(cfg.Site.URL); err != nil {
		return fmt.Errorf("site.url: %w", err)
	}

	if cfg.History.Path == "" {
		return errors.New("history.path: a log file path is required")
	}
	if cfg.History.RetentionDays <= 0 {
		cfg.History.RetentionDays = DefaultRetentionDays
	}

	cfg.Telegram.BotToken = expandEnvVar(cfg.Telegram.BotToken)
	cfg.Telegram.ChatID = expandEnvVar(cfg.Telegram.ChatID)
	if cfg.Telegram.APIBaseURL == "" {
		cfg.Telegram.APIBaseURL = DefaultTelegramAPIBaseURL
	}
	if err := validateHTTPURL(cfg.Telegram.APIBaseURL); err != nil {
		return fmt.Errorf("telegram.api_base_url: %w", err)
	}
	if cfg.Telegram.Timeout <= 0 {
		cfg.Telegram.Timeout = DefaultTelegramTimeout
	}

	if cfg.Site.PageTimeout <= 0 {
		cfg.Site.PageTimeout = DefaultPageTimeout
	}
	if cfg.AccountDelay < 0 {
		return fmt.Errorf("account_delay: must not be negative, got %s", cfg.AccountDelay)
	}

	d := cfg.Site.Delays
	if d.AfterNavigate < 0 || d.AfterLoginClick < 0 || d.AfterFill < 0 || d.AfterSubmit < 0 {
		return errors.New("site.delays: delays must not be negative")
	}

	return nil
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
