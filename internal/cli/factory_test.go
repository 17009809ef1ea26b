package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobatlas/jobatlas/pkg/adapters/file"
	"github.com/jobatlas/jobatlas/pkg/adapters/memory"
	"github.com/jobatlas/jobatlas/pkg/adapters/redis"
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/persistence/middleware"
)

func TestNewStore_Backends(t *testing.T) {
	store, locker, err := NewStore(StoreConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.Nil(t, locker)

	store, locker, err = NewStore(StoreConfig{Backend: "file", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, store)
	assert.Nil(t, locker)

	store, locker, err = NewStore(StoreConfig{
		Backend: "redis",
		Redis:   RedisConfig{Addr: "localhost:6379", Lock: true},
	})
	require.NoError(t, err)
	assert.IsType(t, &redis.Store{}, store)
	assert.NotNil(t, locker)

	_, _, err = NewStore(StoreConfig{Backend: "postgres"})
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestNewStore_EncryptionKey(t *testing.T) {
	key := strings.Repeat("ab", 32)

	store, _, err := NewStore(StoreConfig{Backend: "memory", EncryptionKey: key})
	require.NoError(t, err)
	// the wrapped store is not the raw memory store anymore
	assert.NotEqual(t, "*memory.Store", fmt.Sprintf("%T", store))

	_, _, err = NewStore(StoreConfig{Backend: "memory", EncryptionKey: "zz"})
	assert.ErrorContains(t, err, "encryption_key")

	_, _, err = NewStore(StoreConfig{
		Backend:       "memory",
		EncryptionKey: key,
		FallbackKeys:  []string{"abcd"},
	})
	assert.ErrorContains(t, err, "fallback_keys")
}

func TestNewStore_RedactPatterns(t *testing.T) {
	store, _, err := NewStore(StoreConfig{
		Backend:        "memory",
		RedactPatterns: []string{"(?i)financial"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "*memory.Store", fmt.Sprintf("%T", store))

	tree := domain.NewTree("Finance")
	secret := &domain.Node{ID: "n1", Name: "Financial Metrics", Description: "margins", Kind: domain.KindStep}
	require.NoError(t, tree.AddChild(tree.RootID, secret))
	plain := &domain.Node{ID: "n2", Name: "Job Contexts", Description: "kept", Kind: domain.KindStep}
	require.NoError(t, tree.AddChild(tree.RootID, plain))
	require.NoError(t, store.SaveTree(context.Background(), tree))

	// Matching descriptions are masked at rest, the rest pass through.
	loaded, err := store.LoadTree(context.Background(), "Finance")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded.Node("n1").Description)
	assert.Equal(t, "kept", loaded.Node("n2").Description)

	_, _, err = NewStore(StoreConfig{Backend: "memory", RedactPatterns: []string{"("}})
	assert.ErrorContains(t, err, "redact_patterns")
}

func TestNewAtlas_WorksWithoutAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "memory"

	atlas, err := NewAtlas(cfg, NewLogger(false))
	require.NoError(t, err)

	industries, err := atlas.Industries(t.Context())
	require.NoError(t, err)
	assert.Empty(t, industries)
}

func TestNewEngine_RequiresAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "memory"
	cfg.OpenAI.APIKey = ""

	_, err := NewEngine(cfg, NewLogger(false))
	assert.ErrorContains(t, err, "API key")
}

func TestNewEngine_Builds(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "memory"
	cfg.OpenAI.APIKey = "sk-test"
	cfg.EndUsers = 3
	cfg.Jobs = 4

	engine, err := NewEngine(cfg, NewLogger(true))
	require.NoError(t, err)
	assert.NotNil(t, engine)
	assert.IsType(t, &memory.Store{}, engine.Store())
}

func TestNewEngine_SharedMetrics(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "memory"
	cfg.OpenAI.APIKey = "sk-test"
	logger := NewLogger(false)

	first, err := NewEngine(cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, first)

	// The counters register with the default registry once; a second engine
	// reuses them instead of panicking on duplicate registration.
	second, err := NewEngine(cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Same(t, engineMetrics(), engineMetrics())
}
