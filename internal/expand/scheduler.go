// Package expand implements the expansion scheduler: the loop that walks a
// taxonomy tree, generates children for incomplete nodes, and persists state
// so a run can be stopped and resumed at any point.
package expand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jobatlas/jobatlas/internal/logging"
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/parser"
	"github.com/jobatlas/jobatlas/pkg/ports"
	"github.com/jobatlas/jobatlas/pkg/steps"
)

// Defaults for generated list sizes, matching the shipped configuration.
const (
	DefaultEndUserCount = 10
	DefaultJobCount     = 20
)

// Scheduler drives tree expansion against a store and a generator.
type Scheduler struct {
	store    ports.TreeStore
	gen      ports.Generator
	registry *steps.Registry
	log      *slog.Logger
	hooks    domain.Hooks

	fidelity     domain.Fidelity
	endUserCount int
	jobCount     int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHooks overlays lifecycle callbacks.
func WithHooks(h domain.Hooks) Option {
	return func(s *Scheduler) { s.hooks = s.hooks.Merge(h) }
}

// WithFidelity sets the fidelity passed to list-generating prompts.
func WithFidelity(f domain.Fidelity) Option {
	return func(s *Scheduler) { s.fidelity = f }
}

// WithCounts sets the end-user and job list sizes.
func WithCounts(endUsers, jobs int) Option {
	return func(s *Scheduler) {
		if endUsers > 0 {
			s.endUserCount = endUsers
		}
		if jobs > 0 {
			s.jobCount = jobs
		}
	}
}

// New creates a scheduler. The registry must contain every step the
// taxonomy and pipeline dispatch to; New fails fast when one is missing.
func New(store ports.TreeStore, gen ports.Generator, registry *steps.Registry, opts ...Option) (*Scheduler, error) {
	if store == nil {
		return nil, fmt.Errorf("expand: nil store")
	}
	if gen == nil {
		return nil, fmt.Errorf("expand: nil generator")
	}
	if registry == nil {
		registry = steps.Default()
	}
	if err := registry.Validate(steps.AllStepIDs()...); err != nil {
		return nil, fmt.Errorf("expand: incomplete step registry: %w", err)
	}
	s := &Scheduler{
		store:        store,
		gen:          gen,
		registry:     registry,
		log:          logging.NewNop(),
		fidelity:     domain.FidelityComprehensive,
		endUserCount: DefaultEndUserCount,
		jobCount:     DefaultJobCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BuildTaxonomy loads or initializes the tree for an industry and expands it
// until every taxonomy node is complete. Already-complete nodes are skipped,
// so calling this on a finished tree is a no-op and calling it on a
// partially built tree continues where the previous run stopped. Nodes whose
// generation fails are left incomplete and picked up by the next run; the
// returned error is non-nil only for cancellation and store failures.
func (s *Scheduler) BuildTaxonomy(ctx context.Context, industry string) (*domain.Tree, error) {
	tree, err := s.loadOrInit(ctx, industry)
	if err != nil {
		return nil, err
	}

	frontier := tree.Frontier()
	s.log.Info("taxonomy run starting", "industry", industry, "nodes", tree.Len(), "frontier", len(frontier))

	var walk func(id string) error
	walk = func(id string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := tree.Node(id)
		if !n.Complete {
			if err := s.expandTaxonomyNode(ctx, tree, n); err != nil {
				return err
			}
		}
		// Copy: expansion appends to ChildIDs.
		ids := append([]string(nil), n.ChildIDs...)
		for _, cid := range ids {
			if err := walk(cid); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(tree.RootID); err != nil {
		return nil, err
	}

	s.log.Info("taxonomy run finished", "industry", industry, "nodes", tree.Len())
	return tree, nil
}

// expandTaxonomyNode runs every step the node's kind requires, then marks
// the node complete. Steps that already produced output are skipped. A
// failed generation aborts only this node's expansion: the node stays
// incomplete for a later run and the walk moves on to the rest of the
// frontier. Context cancellation and store errors still abort the run.
func (s *Scheduler) expandTaxonomyNode(ctx context.Context, tree *domain.Tree, n *domain.Node) error {
	for _, stepID := range s.taxonomySteps(tree, n) {
		if stepDone(tree, n, stepID) {
			s.log.Debug("step already done", "step", stepID, "path", tree.Path(n.ID))
			continue
		}
		if err := s.runStep(ctx, tree, n, stepID, 0); err != nil {
			if isGenerationFailure(err) && ctx.Err() == nil {
				s.log.Warn("generation failed, node left incomplete", "err", err)
				return nil
			}
			return err
		}
	}
	return s.markComplete(ctx, tree, n)
}

// taxonomySteps maps a node kind to the steps that expand it.
func (s *Scheduler) taxonomySteps(tree *domain.Tree, n *domain.Node) []string {
	switch n.Kind {
	case domain.KindRoot:
		return []string{steps.StepSectors}
	case domain.KindSector:
		return []string{steps.StepSubSectors}
	case domain.KindSubSector:
		return []string{steps.StepEndUsersProvider, steps.StepEndUsersCustomer}
	case domain.KindEndUser:
		group := tree.NearestAncestor(n.ID, domain.KindEndUserGroup)
		if group != nil && group.Name == steps.GroupCustomers {
			return []string{steps.StepJobsCustomer}
		}
		return []string{steps.StepJobsProvider}
	}
	return nil
}

// runStep executes one registered step against an anchor node: build the
// prompt, call the generator, parse, attach children and persist. The
// children and the updated anchor go to the store in one batch, children
// first, so a crash never yields a parent that references unpersisted
// children.
func (s *Scheduler) runStep(ctx context.Context, tree *domain.Tree, anchor *domain.Node, stepID string, count int) error {
	step, err := s.registry.Lookup(stepID)
	if err != nil {
		return err
	}

	in := s.inputs(tree, anchor, stepID, count)
	req := step.Build(in)

	if s.hooks.OnGenerate != nil {
		s.hooks.OnGenerate(stepID)
	}
	s.log.Info("generating", "step", stepID, "path", tree.Path(anchor.ID))

	text, err := s.gen.Generate(ctx, req)
	if err != nil {
		if s.hooks.OnGenerateError != nil {
			s.hooks.OnGenerateError(stepID)
		}
		return &generationError{err: fmt.Errorf("step %s at %s: %w", stepID, tree.Path(anchor.ID), err)}
	}
	if text == "" {
		if s.hooks.OnGenerateError != nil {
			s.hooks.OnGenerateError(stepID)
		}
		return &generationError{err: fmt.Errorf("step %s at %s: generator returned no text", stepID, tree.Path(anchor.ID))}
	}

	records, dropped := parser.Parse(text)
	if len(dropped) > 0 {
		if s.hooks.OnParseDropped != nil {
			s.hooks.OnParseDropped(stepID, len(dropped))
		}
		for _, line := range dropped {
			s.log.Warn("dropped unparseable line", "step", stepID, "line", line)
		}
	}
	if len(records) == 0 {
		// The model answered but listed nothing. That is a valid empty
		// result, not a failure. Record it on the anchor so the next run
		// skips this step instead of regenerating it.
		s.log.Info("step produced no records", "step", stepID, "path", tree.Path(anchor.ID))
		anchor.EmptySteps = append(anchor.EmptySteps, stepID)
		if err := s.store.UpsertNode(ctx, tree.Industry, anchor); err != nil {
			anchor.EmptySteps = anchor.EmptySteps[:len(anchor.EmptySteps)-1]
			return fmt.Errorf("recording empty step %s at %s: %w", stepID, tree.Path(anchor.ID), err)
		}
		return nil
	}

	parent := anchor
	batch := make([]*domain.Node, 0, len(records)+2)

	if step.Group != nil {
		group := &domain.Node{
			ID:          domain.NewNodeID(),
			Name:        step.Group.Name,
			Description: step.Group.Description,
			Kind:        domain.KindEndUserGroup,
			Origin:      stepID,
			Complete:    true,
		}
		if err := tree.AddChild(anchor.ID, group); err != nil {
			return err
		}
		if s.hooks.OnNodeCreated != nil {
			s.hooks.OnNodeCreated(group.Kind)
		}
		parent = group
	}

	for _, rec := range records {
		child := &domain.Node{
			ID:          domain.NewNodeID(),
			Name:        rec.Name,
			Description: rec.Description,
			Kind:        step.ChildKind,
			Origin:      stepID,
		}
		child.Complete = child.Terminal()
		if err := tree.AddChild(parent.ID, child); err != nil {
			return err
		}
		if s.hooks.OnNodeCreated != nil {
			s.hooks.OnNodeCreated(child.Kind)
		}
		batch = append(batch, child)
	}

	if parent != anchor {
		batch = append(batch, parent)
	}
	batch = append(batch, anchor)

	if err := s.store.UpsertNodes(ctx, tree.Industry, batch); err != nil {
		return fmt.Errorf("persisting step %s at %s: %w", stepID, tree.Path(anchor.ID), err)
	}
	s.log.Info("step done", "step", stepID, "path", tree.Path(anchor.ID), "children", len(records))
	return nil
}

// markComplete flips and persists the completion flag. This is always the
// last write for a node, after its children are durable.
func (s *Scheduler) markComplete(ctx context.Context, tree *domain.Tree, n *domain.Node) error {
	if n.Complete {
		return nil
	}
	n.Complete = true
	if err := s.store.UpsertNode(ctx, tree.Industry, n); err != nil {
		n.Complete = false
		return fmt.Errorf("marking %s complete: %w", tree.Path(n.ID), err)
	}
	if s.hooks.OnNodeComplete != nil {
		s.hooks.OnNodeComplete(n.Kind)
	}
	return nil
}

// inputs resolves the prompt context for a step from the anchor's ancestry.
func (s *Scheduler) inputs(tree *domain.Tree, anchor *domain.Node, stepID string, count int) steps.Inputs {
	in := steps.Inputs{
		Industry: tree.Industry,
		Node:     anchor,
		Count:    count,
		Fidelity: s.fidelity,
	}
	in.Sector = nameOf(tree, anchor, domain.KindSector)
	in.SubSector = nameOf(tree, anchor, domain.KindSubSector)
	in.EndUser = nameOf(tree, anchor, domain.KindEndUser)
	in.Job = nameOf(tree, anchor, domain.KindJob)
	in.JobContext = jobContextOf(tree, anchor)

	if in.Count == 0 {
		switch stepID {
		case steps.StepEndUsersProvider, steps.StepEndUsersCustomer:
			in.Count = s.endUserCount
		case steps.StepJobsProvider, steps.StepJobsCustomer:
			in.Count = s.jobCount
		}
	}
	return in
}

// nameOf returns the name of the anchor itself when it has the kind,
// otherwise the name of its nearest ancestor of that kind, otherwise "".
func nameOf(tree *domain.Tree, n *domain.Node, kind domain.Kind) string {
	if n.Kind == kind {
		return n.Name
	}
	if a := tree.NearestAncestor(n.ID, kind); a != nil {
		return a.Name
	}
	return ""
}

// jobContextOf returns the name of the node sitting directly beneath the
// nearest job ancestor on the anchor's chain. That node is the job context
// the pipeline is currently drilling into; it is empty while expanding the
// job node itself.
func jobContextOf(tree *domain.Tree, n *domain.Node) string {
	if n.Kind == domain.KindJob {
		return ""
	}
	cur := n
	for cur.ParentID != "" {
		parent := tree.Node(cur.ParentID)
		if parent == nil {
			return ""
		}
		if parent.Kind == domain.KindJob {
			return cur.Name
		}
		cur = parent
	}
	return ""
}

// generationError wraps a gateway failure or an empty response. The walk
// treats it as a per-node outcome rather than a run-level failure: the node
// stays incomplete and the run continues.
type generationError struct {
	err error
}

func (e *generationError) Error() string { return e.err.Error() }
func (e *generationError) Unwrap() error { return e.err }

func isGenerationFailure(err error) bool {
	var ge *generationError
	return errors.As(err, &ge)
}

// stepDone reports whether the step already ran against the node: it either
// created a direct child or is recorded as an empty result.
func stepDone(tree *domain.Tree, n *domain.Node, stepID string) bool {
	if hasChildFrom(tree, n, stepID) {
		return true
	}
	return slices.Contains(n.EmptySteps, stepID)
}

// hasChildFrom reports whether the node already has a direct child created
// by the given step.
func hasChildFrom(tree *domain.Tree, n *domain.Node, stepID string) bool {
	for _, c := range tree.Children(n.ID) {
		if c.Origin == stepID {
			return true
		}
	}
	return false
}

// firstChildFrom returns the first direct child created by the given step.
func firstChildFrom(tree *domain.Tree, n *domain.Node, stepID string) *domain.Node {
	for _, c := range tree.Children(n.ID) {
		if c.Origin == stepID {
			return c
		}
	}
	return nil
}
