package config

import (
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/citeworks/doimeta/crossref"
)

type Config struct {
	Crossref CrossrefConfig `koanf:"crossref"`
	Log      LogConfig      `koanf:"log"`

	// k holds the underlying Koanf instance for flexible access to custom keys
	k *koanf.Koanf `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

type CrossrefConfig struct {
	BaseURL     string        `koanf:"baseurl"`
	Mailto      string        `koanf:"mailto"`
	UserAgent   string        `koanf:"useragent"`
	Timeout     time.Duration `koanf:"timeout"`
	RateLimit   float64       `koanf:"ratelimit"`
	Concurrency int           `koanf:"concurrency"`
	Retry       RetryConfig   `koanf:"retry"`
}

type RetryConfig struct {
	Max        int           `koanf:"max"`
	MinBackoff time.Duration `koanf:"minbackoff"`
	MaxBackoff time.Duration `koanf:"maxbackoff"`
	Jitter     bool          `koanf:"jitter"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// Client maps the loaded settings onto a crossref client configuration.
func (c *Config) Client() crossref.Config {
	return crossref.Config{
		BaseURL:         c.Crossref.BaseURL,
		Timeout:         c.Crossref.Timeout,
		Mailto:          c.Crossref.Mailto,
		UserAgent:       c.Crossref.UserAgent,
		RateLimit:       c.Crossref.RateLimit,
		Concurrency:     c.Crossref.Concurrency,
		RetryMax:        c.Crossref.Retry.Max,
		RetryMinBackoff: c.Crossref.Retry.MinBackoff,
		RetryMaxBackoff: c.Crossref.Retry.MaxBackoff,
		RetryJitter:     c.Crossref.Retry.Jitter,
	}
}
