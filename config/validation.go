package config

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
)

func Validate(cfg *Config) error {
	if err := validateCrossref(&cfg.Crossref); err != nil {
		return fmt.Errorf("crossref config: %w", err)
	}

	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

// validateCrossref validates the Crossref client settings. BaseURL must be
// non-empty, Mailto (when set) must parse as an address, and the numeric
// knobs must not be negative. Zero values mean "use the built-in default"
// and are accepted everywhere except MaxBackoff relative to MinBackoff.
func validateCrossref(cfg *CrossrefConfig) error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return fmt.Errorf("base URL is required")
	}

	if addr := strings.TrimSpace(cfg.Mailto); addr != "" {
		if _, err := mail.ParseAddress(addr); err != nil {
			return fmt.Errorf("invalid mailto address %q: %w", addr, err)
		}
	}

	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}

	return validateRetry(&cfg.Retry)
}

func validateRetry(cfg *RetryConfig) error {
	if cfg.Max < 0 {
		return fmt.Errorf("retry max must not be negative")
	}

	if cfg.MinBackoff < 0 {
		return fmt.Errorf("retry min backoff must not be negative")
	}

	if cfg.MaxBackoff < 0 {
		return fmt.Errorf("retry max backoff must not be negative")
	}

	if cfg.MaxBackoff > 0 && cfg.MinBackoff > cfg.MaxBackoff {
		return fmt.Errorf("retry min backoff %s exceeds max backoff %s",
			cfg.MinBackoff, cfg.MaxBackoff)
	}

	return nil
}

// validateLog validates that cfg.Level is one of the supported log levels.
// It returns an error listing the allowed values if the level is invalid.
func validateLog(cfg *LogConfig) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	if !slices.Contains(validLevels, cfg.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			cfg.Level, strings.Join(validLevels, ", "))
	}

	return nil
}
