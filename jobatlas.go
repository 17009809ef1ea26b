package jobatlas

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobatlas/jobatlas/internal/expand"
	"github.com/jobatlas/jobatlas/internal/logging"
	"github.com/jobatlas/jobatlas/pkg/adapters/file"
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/export"
	"github.com/jobatlas/jobatlas/pkg/ports"
	"github.com/jobatlas/jobatlas/pkg/session"
	"github.com/jobatlas/jobatlas/pkg/steps"
)

// Engine is the high-level entry point for the JobAtlas library. It wires a
// tree store, a text generator and the step registry into the expansion
// scheduler, and serializes runs per industry.
type Engine struct {
	store    ports.TreeStore
	gen      ports.Generator
	registry *steps.Registry
	locker   ports.DistributedLocker
	logger   *slog.Logger
	hooks    domain.Hooks
	fidelity domain.Fidelity
	endUsers int
	jobs     int
	pipeline []steps.StepSpec

	sessions *session.Manager
	sched    *expand.Scheduler
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a tree store. Defaults to a file store under
// ".jobatlas/trees".
func WithStore(s ports.TreeStore) Option {
	return func(e *Engine) { e.store = s }
}

// WithGenerator injects the text generator. Required.
func WithGenerator(g ports.Generator) Option {
	return func(e *Engine) { e.gen = g }
}

// WithRegistry injects a custom step registry.
func WithRegistry(r *steps.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLocker enables distributed locking for multi-instance deployments.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) { e.locker = l }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(h domain.Hooks) Option {
	return func(e *Engine) { e.hooks = e.hooks.Merge(h) }
}

// WithFidelity sets the fidelity of generated lists.
func WithFidelity(f domain.Fidelity) Option {
	return func(e *Engine) { e.fidelity = f }
}

// WithCounts sets the end-user and job list sizes.
func WithCounts(endUsers, jobs int) Option {
	return func(e *Engine) {
		e.endUsers = endUsers
		e.jobs = jobs
	}
}

// WithPipeline replaces the default analysis pipeline.
func WithPipeline(specs []steps.StepSpec) Option {
	return func(e *Engine) { e.pipeline = specs }
}

// New initializes a JobAtlas Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		fidelity: domain.FidelityComprehensive,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.gen == nil {
		return nil, fmt.Errorf("a generator is required (use WithGenerator)")
	}
	if e.store == nil {
		e.store = file.NewStore("")
	}
	if e.registry == nil {
		e.registry = steps.Default()
	}
	if len(e.pipeline) == 0 {
		e.pipeline = steps.DefaultPipeline()
	}

	sessionOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, sessionOpts...)

	sched, err := expand.New(e.store, e.gen, e.registry,
		expand.WithLogger(e.logger),
		expand.WithHooks(e.hooks),
		expand.WithFidelity(e.fidelity),
		expand.WithCounts(e.endUsers, e.jobs),
	)
	if err != nil {
		return nil, err
	}
	e.sched = sched
	return e, nil
}

// BuildTaxonomy expands the taxonomy for an industry, resuming any previous
// partial run. The industry is locked for the duration.
func (e *Engine) BuildTaxonomy(ctx context.Context, industry string) (*domain.Tree, error) {
	var tree *domain.Tree
	err := e.sessions.WithLock(ctx, industry, func(ctx context.Context) error {
		var err error
		tree, err = e.sched.BuildTaxonomy(ctx, industry)
		return err
	})
	return tree, err
}

// ProcessJobs runs the analysis pipeline beneath every job of an industry.
func (e *Engine) ProcessJobs(ctx context.Context, industry string) (*domain.Tree, error) {
	var tree *domain.Tree
	err := e.sessions.WithLock(ctx, industry, func(ctx context.Context) error {
		var err error
		tree, err = e.sched.ProcessJobs(ctx, industry, e.pipeline)
		return err
	})
	return tree, err
}

// ProcessJob runs the analysis pipeline beneath a single job node.
func (e *Engine) ProcessJob(ctx context.Context, industry, jobID string) (*domain.Tree, error) {
	var tree *domain.Tree
	err := e.sessions.WithLock(ctx, industry, func(ctx context.Context) error {
		var err error
		tree, err = e.sched.ProcessJob(ctx, industry, jobID, e.pipeline)
		return err
	})
	return tree, err
}

// Tree loads the persisted tree for an industry.
func (e *Engine) Tree(ctx context.Context, industry string) (*domain.Tree, error) {
	return e.sessions.Load(ctx, industry)
}

// Jobs lists the job nodes of an industry in tree order.
func (e *Engine) Jobs(ctx context.Context, industry string) ([]*domain.Node, error) {
	tree, err := e.sessions.Load(ctx, industry)
	if err != nil {
		return nil, err
	}
	return tree.JobNodes(), nil
}

// Industries lists the industries with persisted trees.
func (e *Engine) Industries(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Delete removes all persisted state for an industry.
func (e *Engine) Delete(ctx context.Context, industry string) error {
	return e.sessions.Delete(ctx, industry)
}

// Markdown renders an industry tree as markdown.
func (e *Engine) Markdown(ctx context.Context, industry string) (string, error) {
	tree, err := e.sessions.Load(ctx, industry)
	if err != nil {
		return "", err
	}
	return export.Markdown(tree), nil
}

// Store returns the underlying tree store.
func (e *Engine) Store() ports.TreeStore {
	return e.store
}

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}
