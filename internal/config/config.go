package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/law-makers/modeldocs/internal/utils/headers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "MODELDOCS"

// Config holds application configuration values.
// It is built once at startup and never mutated afterwards.
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool
	LogFile  string

	// Output
	OutputDir   string
	VerboseHTML bool
	SaveRawHTML bool

	// HTTP/Scraping
	HTTPTimeout      time.Duration
	MaxRetries       int
	RetryDelay       time.Duration
	RequestDelay     time.Duration
	MinContentLength int
	UserAgent        string
	Proxy            string
	Headers          map[string]string

	// Caching
	CacheTTL          time.Duration
	CacheMaxSizeBytes int64
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		OutputDir:         DefaultOutputDir(),
		HTTPTimeout:       DefaultHTTPTimeout,
		MaxRetries:        DefaultMaxRetries,
		RetryDelay:        DefaultRetryDelay,
		RequestDelay:      DefaultRequestDelay,
		MinContentLength:  DefaultMinContentLength,
		UserAgent:         DefaultUserAgent,
		Headers:           map[string]string{},
		CacheTTL:          DefaultCacheTTL,
		CacheMaxSizeBytes: DefaultCacheMaxSizeBytes,
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("json", d.JSONLog)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("verbose_html", d.VerboseHTML)
	v.SetDefault("save_raw_html", d.SaveRawHTML)
	v.SetDefault("timeout", d.HTTPTimeout)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("retry_delay", d.RetryDelay)
	v.SetDefault("request_delay", d.RequestDelay)
	v.SetDefault("min_content_length", d.MinContentLength)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("proxy", d.Proxy)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("cache_max_size_bytes", d.CacheMaxSizeBytes)
}

// Load builds a Config by combining defaults, an optional config file, a .env
// file, MODELDOCS_* environment variables and CLI flags, in increasing order
// of precedence. Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	// Variables already set in the environment win over .env
	if err := godotenv.Load(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	var extraHeaders []string
	logLevelOverride := ""

	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}

		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}

		if hs, err := cmd.Flags().GetStringArray("header"); err == nil {
			extraHeaders = hs
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil && f.Value.String() == "true" {
			logLevelOverride = "error"
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
			logLevelOverride = "debug"
		}
	}

	durations := map[string]time.Duration{}
	for _, key := range durationKeys {
		d, err := durationValue(v, key)
		if err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		durations[key] = d
	}

	cfg := &Config{
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		JSONLog:           v.GetBool("json"),
		LogFile:           v.GetString("log_file"),
		OutputDir:         v.GetString("output_dir"),
		VerboseHTML:       v.GetBool("verbose_html"),
		SaveRawHTML:       v.GetBool("save_raw_html"),
		HTTPTimeout:       durations["timeout"],
		MaxRetries:        v.GetInt("max_retries"),
		RetryDelay:        durations["retry_delay"],
		RequestDelay:      durations["request_delay"],
		MinContentLength:  v.GetInt("min_content_length"),
		UserAgent:         v.GetString("user_agent"),
		Proxy:             v.GetString("proxy"),
		Headers:           headers.ParseHeaders(extraHeaders),
		CacheTTL:          durations["cache_ttl"],
		CacheMaxSizeBytes: v.GetInt64("cache_max_size_bytes"),
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir()
	}
	if logLevelOverride != "" {
		cfg.LogLevel = logLevelOverride
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

var durationKeys = []string{"timeout", "retry_delay", "request_delay", "cache_ttl"}

// durationValue reads key as a duration. Numbers without a unit, from the
// environment or a config file, are seconds.
func durationValue(v *viper.Viper, key string) (time.Duration, error) {
	switch raw := v.Get(key).(type) {
	case time.Duration:
		return raw, nil
	case int:
		return time.Duration(raw) * time.Second, nil
	case int64:
		return time.Duration(raw) * time.Second, nil
	case float64:
		return time.Duration(raw * float64(time.Second)), nil
	case string:
		s := strings.TrimSpace(raw)
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a duration", key, raw)
		}
		return d, nil
	default:
		return v.GetDuration(key), nil
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
