package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/citeworks/doimeta/crossref"
)

// envPrefix namespaces the environment variables read by Load, e.g.
// DOIMETA_CROSSREF_MAILTO or DOIMETA_LOG_LEVEL.
const envPrefix = "DOIMETA_"

// configFile is the optional YAML file Load reads from the working directory.
const configFile = "doimeta.yaml"

// Load builds the configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. The doimeta.yaml file, when present
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// The YAML file is optional; only its absence is tolerated, a file that
	// exists but does not parse is a hard error.
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil &&
		!errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", configFile, err)
	}

	if err := k.Load(envprovider.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finalize(k)
}

// LoadBytes builds the configuration from an in-memory YAML document layered
// over the defaults. Environment variables and files are not consulted.
func LoadBytes(doc []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(doc), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config document: %w", err)
	}

	return finalize(k)
}

// envToKey maps DOIMETA_CROSSREF_RETRY_MAX to crossref.retry.max. Key names
// deliberately avoid underscores so the mapping stays unambiguous.
func envToKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "_", ".")
}

func finalize(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"crossref.baseurl":          crossref.DefaultBaseURL,
		"crossref.mailto":           "",
		"crossref.useragent":        "",
		"crossref.timeout":          30 * time.Second,
		"crossref.ratelimit":        0.0,
		"crossref.concurrency":      0,
		"crossref.retry.max":        5,
		"crossref.retry.minbackoff": 1 * time.Second,
		"crossref.retry.maxbackoff": 60 * time.Second,
		"crossref.retry.jitter":     true,

		"log.level":  "info",
		"log.pretty": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
