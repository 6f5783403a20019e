package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/careerpath"
	"github.com/aretw0/careerpath/internal/config"
	"github.com/aretw0/careerpath/internal/logging"
	"github.com/aretw0/careerpath/pkg/adapters/file"
	"github.com/aretw0/careerpath/pkg/adapters/memory"
	"github.com/aretw0/careerpath/pkg/adapters/offline"
	"github.com/aretw0/careerpath/pkg/adapters/openai"
	"github.com/aretw0/careerpath/pkg/adapters/redis"
	"github.com/aretw0/careerpath/pkg/adapters/tavily"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/persistence/middleware"
	"github.com/aretw0/careerpath/pkg/ports"
	"github.com/aretw0/careerpath/pkg/session"
)

// createLogger configures the application logger from config.
// Debug forces the debug level regardless of configuration.
func createLogger(cfg config.LogConfig, w io.Writer, debug bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stderr
	}
	if cfg.Format == "json" {
		return logging.NewJSON(w, level), nil
	}
	return logging.NewText(w, level), nil
}

// createOracle returns the offline oracle or the OpenAI-backed one.
func createOracle(cfg config.OracleConfig) (ports.Oracle, error) {
	if cfg.Offline {
		return offline.New(), nil
	}
	return openai.New(openai.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
}

// createSearcher returns nil when search is not configured.
func createSearcher(cfg config.SearchConfig) (ports.Searcher, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	opts := []tavily.Option{tavily.WithRateLimit(cfg.RateLimit, cfg.Burst)}
	if cfg.Endpoint != "" {
		opts = append(opts, tavily.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Depth != "" {
		opts = append(opts, tavily.WithSearchDepth(cfg.Depth))
	}
	return tavily.New(cfg.APIKey, opts...)
}

// createEngine initializes a planning engine with standard CLI conventions.
func createEngine(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*careerpath.Engine, error) {
	oracle, err := createOracle(cfg.Oracle)
	if err != nil {
		return nil, fmt.Errorf("error initializing oracle: %w", err)
	}
	searcher, err := createSearcher(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("error initializing search: %w", err)
	}

	engineOpts := []careerpath.Option{
		careerpath.WithLogger(logger),
		careerpath.WithLifecycleHooks(hooks),
		careerpath.WithOracleTimeout(cfg.Oracle.Timeout),
		careerpath.WithSearchTimeout(cfg.Search.Timeout),
		careerpath.WithMaxConcurrentRuns(cfg.Runs.MaxConcurrent),
	}
	if searcher != nil {
		engineOpts = append(engineOpts, careerpath.WithSearcher(searcher))
	}

	engine, err := careerpath.New(oracle, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// createSessionManager builds the configured store, wraps it with the
// persistence middlewares and returns a manager plus a close function.
func createSessionManager(cfg config.SessionsConfig, logger *slog.Logger) (*session.Manager, func() error, error) {
	var (
		store   ports.SessionStore
		closeFn = func() error { return nil }
		opts    = []session.Option{
			session.WithLogger(logger),
			session.WithMaxHistory(cfg.MaxHistory),
		}
	)

	switch cfg.Backend {
	case config.BackendRedis:
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(cfg.TTL),
			redis.WithPrefix(cfg.Redis.Prefix),
		)
		store = rs
		closeFn = rs.Close
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), cfg.Redis.Prefix)))
	case config.BackendFile:
		store = file.New(cfg.Dir)
	default:
		store = memory.NewStore(
			memory.WithTTL(cfg.TTL),
			memory.WithCapacity(cfg.Capacity),
		)
	}

	var mws []middleware.Middleware
	if cfg.MaskPII {
		patterns := cfg.PIIPatterns
		if len(patterns) == 0 {
			patterns = middleware.DefaultPIIPatterns
		}
		mws = append(mws, middleware.NewPIIMiddleware(patterns))
	}
	if cfg.EncryptionKey != "" {
		key, err := cfg.Key()
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	store = middleware.Chain(store, mws...)

	return session.NewManager(store, opts...), closeFn, nil
}
