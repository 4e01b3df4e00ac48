package config

import "time"

// GetString returns an arbitrary key from the loaded sources, for settings
// outside the typed structure.
func (c *Config) GetString(key string) string {
	if c.k == nil {
		return ""
	}
	return c.k.String(key)
}

// GetBool returns an arbitrary boolean key from the loaded sources.
func (c *Config) GetBool(key string) bool {
	if c.k == nil {
		return false
	}
	return c.k.Bool(key)
}

// GetDuration returns an arbitrary duration key from the loaded sources.
func (c *Config) GetDuration(key string) time.Duration {
	if c.k == nil {
		return 0
	}
	return c.k.Duration(key)
}

// Exists reports whether a key was provided by any source.
func (c *Config) Exists(key string) bool {
	return c.k != nil && c.k.Exists(key)
}
