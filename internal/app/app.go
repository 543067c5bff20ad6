// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/law-makers/modeldocs/internal/artifact"
	"github.com/law-makers/modeldocs/internal/cache"
	"github.com/law-makers/modeldocs/internal/config"
	"github.com/law-makers/modeldocs/internal/engine"
	"github.com/law-makers/modeldocs/internal/fetcher"
	"github.com/law-makers/modeldocs/internal/provider"
	"github.com/law-makers/modeldocs/internal/ratelimit"
	"github.com/law-makers/modeldocs/internal/retry"
	"github.com/law-makers/modeldocs/internal/utils/output"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config       *config.Config
	Logger       *zerolog.Logger
	Cache        *cache.MemoryCache // nil when caching is disabled
	RateLimiter  ratelimit.RateLimiter
	HTTPClient   *http.Client
	Fetcher      *fetcher.Fetcher
	Resolver     *provider.Resolver
	Persister    *output.Persister
	Orchestrator *engine.Orchestrator
	logFile      io.Closer
	startTime    time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging (console or JSON, plus an optional rotated log file)
//   - Creates the output directory
//   - Creates the rate limiter, HTTP client and fetcher
//   - Wires the resolver, artifact builder and persister into the orchestrator
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger, logFile := newLogger(cfg)
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Str("log_file", cfg.LogFile).
		Msg("Logger initialized")

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("create output dir %s: %w", cfg.OutputDir, err)
	}

	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Str("proxy", cfg.Proxy).
		Msg("HTTP client initialized")

	limiter := ratelimit.NewIntervalLimiter(cfg.RequestDelay)
	logger.Debug().
		Dur("request_delay", cfg.RequestDelay).
		Msg("Rate limiter initialized")

	var memCache *cache.MemoryCache
	fetchOpts := fetcher.Options{
		Client:  httpClient,
		Limiter: limiter,
		Retry: retry.Config{
			MaxAttempts: cfg.MaxRetries,
			Backoff:     retry.Flat(cfg.RetryDelay),
		},
		UserAgent: cfg.UserAgent,
		Headers:   cfg.Headers,
	}
	if cfg.CacheTTL > 0 {
		memCache = cache.NewMemoryCache(cfg.CacheMaxSizeBytes)
		fetchOpts.Cache = memCache
		fetchOpts.CacheTTL = cfg.CacheTTL
		logger.Debug().
			Dur("ttl", cfg.CacheTTL).
			Int64("max_size_bytes", cfg.CacheMaxSizeBytes).
			Msg("Page cache initialized")
	}
	pageFetcher := fetcher.New(fetchOpts)

	resolver := provider.NewDefaultResolver()
	persister := output.NewPersister(cfg.OutputDir)
	builder := artifact.NewBuilder(artifact.NewValidator(cfg.MinContentLength))

	orchestrator := engine.NewOrchestrator(resolver, pageFetcher, builder, persister, engine.Options{
		VerboseHTML: cfg.VerboseHTML,
		SaveRawHTML: cfg.SaveRawHTML,
	})

	app := &Application{
		Config:       cfg,
		Logger:       &logger,
		Cache:        memCache,
		RateLimiter:  limiter,
		HTTPClient:   httpClient,
		Fetcher:      pageFetcher,
		Resolver:     resolver,
		Persister:    persister,
		Orchestrator: orchestrator,
		logFile:      logFile,
		startTime:    time.Now(),
	}

	logger.Debug().Str("output_dir", cfg.OutputDir).Msg("Application initialized successfully")
	return app, nil
}

// ParseLevel maps a configured level name to a zerolog level
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func newLogger(cfg *config.Config) (zerolog.Logger, io.Closer) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.LogLevel))

	var console io.Writer
	if cfg.JSONLog {
		console = os.Stderr
	} else {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	if cfg.LogFile == "" {
		return zerolog.New(console).With().Timestamp().Logger(), nil
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    config.DefaultLogFileMaxSizeMB,
		MaxBackups: config.DefaultLogFileMaxBackups,
		MaxAge:     config.DefaultLogFileMaxAgeDays,
		Compress:   true,
	}
	writer := zerolog.MultiLevelWriter(console, rotating)
	return zerolog.New(writer).With().Timestamp().Logger(), rotating
}

func newHTTPClient(cfg *config.Config) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil || proxyURL.Host == "" {
			return nil, fmt.Errorf("invalid proxy URL %q", cfg.Proxy)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: transport,
	}, nil
}

// Close releases the cache, idle connections and the log file.
// A context with a timeout should be provided to prevent indefinite blocking.
func (a *Application) Close(ctx context.Context) error {
	if a.Cache != nil {
		stats := a.Cache.Stats()
		a.Logger.Debug().
			Int("entries", stats.Entries).
			Uint64("hits", stats.Hits).
			Uint64("misses", stats.Misses).
			Float64("hit_rate", stats.HitRate()).
			Msg("Page cache statistics")
		a.Cache.Close()
	}

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")

	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
