package config

import (
	"fmt"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validate(c *Config) error {
	if c.OutputDir == "" {
		return fmt.Errorf("output dir must not be empty")
	}
	if c.HTTPTimeout < time.Millisecond {
		return fmt.Errorf("http timeout must be at least 1ms, got %s", c.HTTPTimeout)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be >= 1")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must be >= 0")
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request delay must be >= 0")
	}
	if c.MinContentLength < 0 {
		return fmt.Errorf("min content length must be >= 0")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must be >= 0")
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
