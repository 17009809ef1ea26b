package expand_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jobatlas/jobatlas/internal/expand"
	"github.com/jobatlas/jobatlas/pkg/adapters/memory"
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/ports"
	"github.com/jobatlas/jobatlas/pkg/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallPipeline drills contexts -> job map -> desired outcomes.
func smallPipeline() []steps.StepSpec {
	return []steps.StepSpec{
		{
			StepID: steps.StepJobContexts,
			Count:  2,
			Children: []steps.StepSpec{
				{
					StepID: steps.StepJobMap,
					Children: []steps.StepSpec{
						{StepID: steps.StepDesiredOutcomes, Count: 2},
					},
				},
			},
		},
	}
}

func builtTree(t *testing.T, store ports.TreeStore, gen ports.Generator) *expand.Scheduler {
	t.Helper()
	s := newScheduler(t, store, gen)
	_, err := s.BuildTaxonomy(context.Background(), "Finance")
	require.NoError(t, err)
	return s
}

func TestProcessJobs_DrillsFirstBranch(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	s := builtTree(t, store, gen)

	tree, err := s.ProcessJobs(context.Background(), "Finance", smallPipeline())
	require.NoError(t, err)
	require.NoError(t, tree.Validate())

	jobs := tree.JobNodes()
	require.NotEmpty(t, jobs)
	for _, job := range jobs {
		contexts := tree.Children(job.ID)
		require.Len(t, contexts, 2, "every job gets its contexts")
		assert.Equal(t, steps.StepJobContexts, contexts[0].Origin)
		assert.Equal(t, domain.KindStep, contexts[0].Kind)

		// Only the first context is drilled into.
		mapSteps := tree.Children(contexts[0].ID)
		require.Len(t, mapSteps, 2)
		assert.Equal(t, steps.StepJobMap, mapSteps[0].Origin)
		assert.Empty(t, tree.Children(contexts[1].ID))

		// Only the first map step gets outcomes.
		outcomes := tree.Children(mapSteps[0].ID)
		require.Len(t, outcomes, 2)
		assert.Equal(t, steps.StepDesiredOutcomes, outcomes[0].Origin)
		assert.Empty(t, tree.Children(mapSteps[1].ID))
	}

	// Pipeline state is durable.
	loaded, err := store.LoadTree(context.Background(), "Finance")
	require.NoError(t, err)
	assert.Equal(t, tree.Len(), loaded.Len())
}

func TestProcessJobs_SecondRunIsNoOp(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	s := builtTree(t, store, gen)

	_, err := s.ProcessJobs(context.Background(), "Finance", smallPipeline())
	require.NoError(t, err)
	before := gen.total

	_, err = s.ProcessJobs(context.Background(), "Finance", smallPipeline())
	require.NoError(t, err)
	assert.Equal(t, before, gen.total)
}

func TestProcessJobs_ResumeAfterFailure(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	s := builtTree(t, store, gen)

	gen.failAt = gen.total + 2 // fail the first job's map step
	_, err := s.ProcessJobs(context.Background(), "Finance", smallPipeline())
	require.NoError(t, err, "a failed step does not abort the run")

	loaded, err := store.LoadTree(context.Background(), "Finance")
	require.NoError(t, err)
	jobs := len(loaded.JobNodes())

	assert.Equal(t, jobs, gen.count("contexts"), "every job still got its contexts")
	mapsBefore := gen.count("job_map")
	require.Equal(t, jobs-1, mapsBefore, "the failed map step left no output")

	_, err = s.ProcessJobs(context.Background(), "Finance", smallPipeline())
	require.NoError(t, err)
	assert.Equal(t, mapsBefore+1, gen.count("job_map"), "only the failed step runs again")
	assert.Equal(t, jobs, gen.count("contexts"), "existing output is not regenerated")
}

func TestProcessJobs_EmptyStepNotRepeated(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	builtTree(t, store, gen)

	// Context prompts get prose with no list entries; every other prompt
	// keeps its canned answer.
	var contextCalls int
	empty := ports.GeneratorFunc(func(ctx context.Context, req domain.GenerationRequest) (string, error) {
		if strings.Contains(req.Prompt, "contexts in which you could be") {
			contextCalls++
			return "No distinct contexts apply to this job.", nil
		}
		return gen.Generate(ctx, req)
	})
	s2 := newScheduler(t, store, empty)

	tree, err := s2.ProcessJobs(context.Background(), "Finance", smallPipeline())
	require.NoError(t, err)
	jobs := tree.JobNodes()
	require.NotEmpty(t, jobs)
	require.Equal(t, len(jobs), contextCalls)

	// The empty outcome is durable: the second run loads the tree from the
	// store and skips the step without another gateway call.
	for _, job := range jobs {
		assert.Contains(t, job.EmptySteps, steps.StepJobContexts)
		assert.Empty(t, tree.Children(job.ID))
	}

	_, err = s2.ProcessJobs(context.Background(), "Finance", smallPipeline())
	require.NoError(t, err)
	assert.Equal(t, len(jobs), contextCalls, "a recorded empty result is not regenerated")
}

func TestProcessJobs_MissingTree(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	s := newScheduler(t, store, gen)

	_, err := s.ProcessJobs(context.Background(), "Nowhere", nil)
	assert.ErrorIs(t, err, domain.ErrTreeNotFound)
}

func TestProcessJob_SingleJob(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	s := builtTree(t, store, gen)

	loaded, err := store.LoadTree(context.Background(), "Finance")
	require.NoError(t, err)
	jobs := loaded.JobNodes()
	require.NotEmpty(t, jobs)

	tree, err := s.ProcessJob(context.Background(), "Finance", jobs[0].ID, smallPipeline())
	require.NoError(t, err)
	assert.Len(t, tree.Children(jobs[0].ID), 2)

	// The other jobs are untouched.
	for _, job := range jobs[1:] {
		assert.Empty(t, tree.Children(job.ID))
	}

	t.Run("unknown job id", func(t *testing.T) {
		_, err := s.ProcessJob(context.Background(), "Finance", "no-such-id", nil)
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})
}

func TestProcessJobs_UnknownStepInSpec(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	s := builtTree(t, store, gen)

	_, err := s.ProcessJobs(context.Background(), "Finance", []steps.StepSpec{{StepID: "bogus", Count: 1}})
	assert.ErrorIs(t, err, domain.ErrStepNotFound)
}
