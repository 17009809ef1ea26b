package expand

import (
	"context"

	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/steps"
)

// ProcessJobs runs the analysis pipeline beneath every job node of an
// existing tree. The pipeline is declarative: each spec runs its step
// against the current anchor, then runs its child specs against the first
// node that step created. Steps that already produced children are skipped,
// so an interrupted run resumes by re-walking and continuing at the first
// step without output.
func (s *Scheduler) ProcessJobs(ctx context.Context, industry string, pipeline []steps.StepSpec) (*domain.Tree, error) {
	if len(pipeline) == 0 {
		pipeline = steps.DefaultPipeline()
	}
	if err := s.registry.Validate(steps.StepIDsOf(pipeline)...); err != nil {
		return nil, err
	}

	tree, err := s.load(ctx, industry)
	if err != nil {
		return nil, err
	}

	jobs := tree.JobNodes()
	s.log.Info("pipeline run starting", "industry", industry, "jobs", len(jobs))

	for _, job := range jobs {
		if err := s.runSpecs(ctx, tree, job, pipeline); err != nil {
			return nil, err
		}
	}

	s.log.Info("pipeline run finished", "industry", industry, "nodes", tree.Len())
	return tree, nil
}

// ProcessJob runs the pipeline beneath a single job node.
func (s *Scheduler) ProcessJob(ctx context.Context, industry, jobID string, pipeline []steps.StepSpec) (*domain.Tree, error) {
	if len(pipeline) == 0 {
		pipeline = steps.DefaultPipeline()
	}
	if err := s.registry.Validate(steps.StepIDsOf(pipeline)...); err != nil {
		return nil, err
	}

	tree, err := s.load(ctx, industry)
	if err != nil {
		return nil, err
	}
	job := tree.Node(jobID)
	if job == nil || job.Kind != domain.KindJob {
		return nil, domain.ErrNodeNotFound
	}
	if err := s.runSpecs(ctx, tree, job, pipeline); err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *Scheduler) runSpecs(ctx context.Context, tree *domain.Tree, anchor *domain.Node, specs []steps.StepSpec) error {
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !stepDone(tree, anchor, spec.StepID) {
			if err := s.runStep(ctx, tree, anchor, spec.StepID, spec.Count); err != nil {
				if isGenerationFailure(err) && ctx.Err() == nil {
					// The step left no output, so a later run retries it.
					// Later specs and later jobs still run.
					s.log.Warn("generation failed, step skipped", "err", err)
					continue
				}
				return err
			}
		} else {
			s.log.Debug("step already done", "step", spec.StepID, "path", tree.Path(anchor.ID))
		}
		if len(spec.Children) == 0 {
			continue
		}
		// Child specs anchor on the first node this step created. The
		// remaining siblings stay leaves: the drill-down samples one branch
		// instead of exploding combinatorially.
		next := firstChildFrom(tree, anchor, spec.StepID)
		if next == nil {
			s.log.Info("no anchor for nested steps", "step", spec.StepID, "path", tree.Path(anchor.ID))
			continue
		}
		if err := s.runSpecs(ctx, tree, next, spec.Children); err != nil {
			return err
		}
	}
	return nil
}
