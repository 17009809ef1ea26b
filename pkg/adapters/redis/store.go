// Package redis implements ports.TreeStore and ports.DistributedLocker on
// Redis. Trees are stored flat: one JSON value per node plus a per-tree
// index, so single-node upserts never rewrite the whole taxonomy.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jobatlas/jobatlas/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.TreeStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix for trees.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "jobatlas:tree:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) metaKey(industry string) string {
	return s.prefix + industry + ":meta"
}

func (s *Store) nodesKey(industry string) string {
	return s.prefix + industry + ":nodes"
}

func (s *Store) nodeKey(industry, id string) string {
	return s.prefix + industry + ":node:" + id
}

type meta struct {
	RootID string `json:"root_id"`
}

// SaveTree replaces all stored state for the tree's industry.
func (s *Store) SaveTree(ctx context.Context, tree *domain.Tree) error {
	if err := s.Delete(ctx, tree.Industry); err != nil {
		return err
	}

	metaData, err := json.Marshal(meta{RootID: tree.RootID})
	if err != nil {
		return fmt.Errorf("failed to marshal tree meta: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.metaKey(tree.Industry), metaData, 0)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: 0, Member: tree.Industry})
	for i, n := range tree.Nodes() {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("failed to marshal node %s: %w", n.ID, err)
		}
		pipe.Set(ctx, s.nodeKey(tree.Industry, n.ID), data, 0)
		pipe.ZAddNX(ctx, s.nodesKey(tree.Industry), backend.Z{Score: float64(i), Member: n.ID})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save tree to redis: %w", err)
	}
	return nil
}

// LoadTree fetches every node record and reassembles the tree.
func (s *Store) LoadTree(ctx context.Context, industry string) (*domain.Tree, error) {
	m, err := s.loadMeta(ctx, industry)
	if err != nil {
		return nil, err
	}

	ids, err := s.client.ZRange(ctx, s.nodesKey(industry), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tree nodes: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: tree %s has no node records", domain.ErrCorruptTree, industry)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.nodeKey(industry, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tree nodes: %w", err)
	}

	nodes := make([]*domain.Node, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: node record %s missing", domain.ErrCorruptTree, ids[i])
		}
		var n domain.Node
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return nil, fmt.Errorf("%w: node record %s: %v", domain.ErrCorruptTree, ids[i], err)
		}
		nodes = append(nodes, &n)
	}

	tree, err := domain.Restore(industry, m.RootID, nodes)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", industry, err)
	}
	return tree, nil
}

// UpsertNode writes a single node record.
func (s *Store) UpsertNode(ctx context.Context, industry string, node *domain.Node) error {
	return s.UpsertNodes(ctx, industry, []*domain.Node{node})
}

// UpsertNodes writes node records in order within one pipeline.
func (s *Store) UpsertNodes(ctx context.Context, industry string, nodes []*domain.Node) error {
	if _, err := s.loadMeta(ctx, industry); err != nil {
		return err
	}

	seq := float64(time.Now().UnixNano())
	pipe := s.client.Pipeline()
	for i, n := range nodes {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("failed to marshal node %s: %w", n.ID, err)
		}
		pipe.Set(ctx, s.nodeKey(industry, n.ID), data, 0)
		pipe.ZAddNX(ctx, s.nodesKey(industry), backend.Z{Score: seq + float64(i), Member: n.ID})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert nodes to redis: %w", err)
	}
	return nil
}

// FindNode returns one node record by id.
func (s *Store) FindNode(ctx context.Context, industry, id string) (*domain.Node, error) {
	val, err := s.client.Get(ctx, s.nodeKey(industry, id)).Result()
	if err == backend.Nil {
		if _, merr := s.loadMeta(ctx, industry); merr != nil {
			return nil, merr
		}
		return nil, domain.ErrNodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get node from redis: %w", err)
	}
	var n domain.Node
	if err := json.Unmarshal([]byte(val), &n); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node: %w", err)
	}
	return &n, nil
}

// List returns the industries in the index.
func (s *Store) List(ctx context.Context) ([]string, error) {
	industries, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}
	return industries, nil
}

// Delete removes every key belonging to an industry.
func (s *Store) Delete(ctx context.Context, industry string) error {
	ids, err := s.client.ZRange(ctx, s.nodesKey(industry), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list tree nodes: %w", err)
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.nodeKey(industry, id))
	}
	pipe.Del(ctx, s.nodesKey(industry))
	pipe.Del(ctx, s.metaKey(industry))
	pipe.ZRem(ctx, s.indexKey(), industry)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete tree from redis: %w", err)
	}
	return nil
}

// Client exposes the underlying redis client, e.g. to share it with a
// Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) loadMeta(ctx context.Context, industry string) (meta, error) {
	val, err := s.client.Get(ctx, s.metaKey(industry)).Result()
	if err == backend.Nil {
		return meta{}, domain.ErrTreeNotFound
	}
	if err != nil {
		return meta{}, fmt.Errorf("failed to get tree meta from redis: %w", err)
	}
	var m meta
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		return meta{}, fmt.Errorf("%w: tree meta: %v", domain.ErrCorruptTree, err)
	}
	return m, nil
}
