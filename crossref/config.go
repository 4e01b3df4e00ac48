package crossref

import (
	"strings"
	"time"
)

// DefaultBaseURL is the Crossref REST API root.
const DefaultBaseURL = "https://api.crossref.org/v1"

// defaultMailto identifies the library itself when the caller configures no
// contact address; Crossref asks for some contact on every request.
const defaultMailto = "icoderdev@outlook.com"

// Rate and concurrency pairs auto-selected from pool membership. Crossref
// documents no hard numbers for either pool; these are the pinned defaults
// and may be revised.
const (
	defaultPublicRate        = 5
	defaultPublicConcurrency = 1
	defaultPoliteRate        = 10
	defaultPoliteConcurrency = 3
)

// Retry defaults.
const (
	defaultTimeout         = 30 * time.Second
	defaultRetryMax        = 5
	defaultRetryMinBackoff = 1 * time.Second
	defaultRetryMaxBackoff = 60 * time.Second
)

// Config holds the declarative client settings. A Config is read once by
// NewClient and never written afterwards.
type Config struct {
	// BaseURL of the Crossref REST API; a trailing slash is trimmed.
	BaseURL string
	// Timeout applied to each individual attempt.
	Timeout time.Duration
	// Mailto is the contact address granting polite-pool service. When
	// empty, a fixed fallback address is sent instead and public-pool
	// limits apply.
	Mailto string
	// UserAgent is the identity name for the User-Agent header. The header
	// is only sent when this is set.
	UserAgent string
	// RateLimit overrides the auto-selected requests-per-second budget
	// when positive.
	RateLimit float64
	// Concurrency overrides the auto-selected in-flight bound when
	// positive.
	Concurrency int
	// RetryMax bounds retries after the initial attempt.
	RetryMax int
	// RetryMinBackoff seeds the exponential backoff.
	RetryMinBackoff time.Duration
	// RetryMaxBackoff caps backoff and Retry-After delays.
	RetryMaxBackoff time.Duration
	// RetryJitter randomizes delays to desynchronize concurrent retriers.
	RetryJitter bool
}

// DefaultConfig returns the documented defaults: public-pool limits, 30s
// per-attempt timeout, five retries between 1s and 60s with jitter.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         defaultTimeout,
		RetryMax:        defaultRetryMax,
		RetryMinBackoff: defaultRetryMinBackoff,
		RetryMaxBackoff: defaultRetryMaxBackoff,
		RetryJitter:     true,
	}
}

// Polite sets the contact address, opting the client into the polite pool.
func (c Config) Polite(email string) Config {
	if trimmed := strings.TrimSpace(email); trimmed != "" {
		c.Mailto = trimmed
	}
	return c
}

// baseURL returns the trimmed base URL without a trailing slash.
func (c *Config) baseURL() string {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/")
}

// mailto returns the effective contact address, falling back to the fixed
// library address when the caller configured none.
func (c *Config) mailto() string {
	if trimmed := strings.TrimSpace(c.Mailto); trimmed != "" {
		return trimmed
	}
	return defaultMailto
}

// politePool reports whether a caller-supplied contact address is present.
func (c *Config) politePool() bool {
	return strings.TrimSpace(c.Mailto) != ""
}

// userAgent returns the trimmed identity name, "" when unset.
func (c *Config) userAgent() string {
	return strings.TrimSpace(c.UserAgent)
}

// rateLimit returns the effective requests-per-second budget.
func (c *Config) rateLimit() float64 {
	if c.RateLimit > 0 {
		return c.RateLimit
	}
	if c.politePool() {
		return defaultPoliteRate
	}
	return defaultPublicRate
}

// concurrency returns the effective in-flight request bound.
func (c *Config) concurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	if c.politePool() {
		return defaultPoliteConcurrency
	}
	return defaultPublicConcurrency
}

func (c *Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}
