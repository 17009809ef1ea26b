package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jobatlas/jobatlas"
	"github.com/jobatlas/jobatlas/internal/logging"
	"github.com/jobatlas/jobatlas/pkg/adapters/file"
	"github.com/jobatlas/jobatlas/pkg/adapters/memory"
	"github.com/jobatlas/jobatlas/pkg/adapters/openai"
	"github.com/jobatlas/jobatlas/pkg/adapters/redis"
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/persistence/middleware"
	"github.com/jobatlas/jobatlas/pkg/ports"
	"github.com/jobatlas/jobatlas/pkg/session"
)

// NewLogger configures the application logger for the CLI. Verbose runs
// include debug records; either way output goes to Stderr.
func NewLogger(verbose bool) *slog.Logger {
	if verbose {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelInfo)
}

// NewStore builds the configured tree store and, for backends that support
// it, a distributed locker. Configured middlewares wrap the store: redaction
// blanks matching descriptions, an encryption key encrypts node text at
// rest. Redaction runs first so it matches plaintext names.
func NewStore(cfg StoreConfig) (ports.TreeStore, ports.DistributedLocker, error) {
	var store ports.TreeStore
	var locker ports.DistributedLocker

	switch cfg.Backend {
	case "file":
		store = file.NewStore(cfg.Path)
	case "memory":
		store = memory.NewStore()
	case "redis":
		redisStore := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if cfg.Redis.Lock {
			locker = redis.NewLocker(redisStore.Client(), "")
		}
		store = redisStore
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	var mws []middleware.Middleware
	if len(cfg.RedactPatterns) > 0 {
		for i, p := range cfg.RedactPatterns {
			if _, err := regexp.Compile(p); err != nil {
				return nil, nil, fmt.Errorf("store.redact_patterns[%d]: %w", i, err)
			}
		}
		mws = append(mws, middleware.NewRedactionMiddleware(cfg.RedactPatterns))
	}
	if cfg.EncryptionKey != "" {
		encCfg, err := encryptionConfig(cfg)
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(encCfg))
	}
	if len(mws) > 0 {
		store = middleware.Chain(store, mws...)
	}
	return store, locker, nil
}

func encryptionConfig(cfg StoreConfig) (middleware.EncryptionConfig, error) {
	active, err := decodeKey(cfg.EncryptionKey)
	if err != nil {
		return middleware.EncryptionConfig{}, fmt.Errorf("store.encryption_key: %w", err)
	}
	fallbacks := make([][]byte, 0, len(cfg.FallbackKeys))
	for i, k := range cfg.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return middleware.EncryptionConfig{}, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		fallbacks = append(fallbacks, key)
	}
	return middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallbacks}, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("want 32 bytes (64 hex chars), got %d bytes", len(key))
	}
	return key, nil
}

// Atlas is the read side of the engine: everything that works on already
// persisted trees, without needing a generator or an API key.
type Atlas struct {
	sessions *session.Manager
}

// NewAtlas builds a read-only atlas over the configured store.
func NewAtlas(cfg Config, logger *slog.Logger) (*Atlas, error) {
	store, locker, err := NewStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	opts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		opts = append(opts, session.WithLocker(locker))
	}
	return &Atlas{sessions: session.NewManager(store, opts...)}, nil
}

// Industries lists the industries with persisted trees.
func (a *Atlas) Industries(ctx context.Context) ([]string, error) {
	return a.sessions.List(ctx)
}

// Tree loads the persisted tree for an industry.
func (a *Atlas) Tree(ctx context.Context, industry string) (*domain.Tree, error) {
	return a.sessions.Load(ctx, industry)
}

// Jobs lists the job nodes of an industry in tree order.
func (a *Atlas) Jobs(ctx context.Context, industry string) ([]*domain.Node, error) {
	tree, err := a.sessions.Load(ctx, industry)
	if err != nil {
		return nil, err
	}
	return tree.JobNodes(), nil
}

// Delete removes all persisted state for an industry.
func (a *Atlas) Delete(ctx context.Context, industry string) error {
	return a.sessions.Delete(ctx, industry)
}

// NewEngine assembles an engine from the configuration, with the
// process-wide Prometheus counters attached. The counters live in the
// default registry, so /metrics reflects them only when the same process
// serves HTTP; a separate serve process keeps its own registry.
func NewEngine(cfg Config, logger *slog.Logger) (*jobatlas.Engine, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("no OpenAI API key configured (set openai.api_key or OPENAI_API_KEY)")
	}

	store, locker, err := NewStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	gatewayOpts := []openai.Option{
		openai.WithModel(cfg.OpenAI.Model),
		openai.WithLogger(logger),
	}
	if cfg.OpenAI.Temperature > 0 {
		gatewayOpts = append(gatewayOpts, openai.WithTemperature(cfg.OpenAI.Temperature))
	}
	if cfg.OpenAI.MaxTokens > 0 {
		gatewayOpts = append(gatewayOpts, openai.WithMaxTokens(cfg.OpenAI.MaxTokens))
	}
	gen := openai.NewWithBaseURL(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, gatewayOpts...)

	opts := []jobatlas.Option{
		jobatlas.WithGenerator(gen),
		jobatlas.WithStore(store),
		jobatlas.WithLogger(logger),
		jobatlas.WithFidelity(domain.Fidelity(cfg.Fidelity)),
		jobatlas.WithHooks(engineMetrics().Hooks()),
	}
	if locker != nil {
		opts = append(opts, jobatlas.WithLocker(locker))
	}
	if cfg.EndUsers > 0 || cfg.Jobs > 0 {
		opts = append(opts, jobatlas.WithCounts(cfg.EndUsers, cfg.Jobs))
	}
	if len(cfg.Pipeline) > 0 {
		opts = append(opts, jobatlas.WithPipeline(cfg.Pipeline))
	}

	return jobatlas.New(opts...)
}
