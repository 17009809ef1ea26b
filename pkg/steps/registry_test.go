package steps_test

import (
	"testing"

	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CoversEveryStep(t *testing.T) {
	r := steps.Default()
	require.NoError(t, r.Validate(steps.AllStepIDs()...))
	assert.Len(t, r.IDs(), len(steps.AllStepIDs()))
}

func TestRegister_Rejections(t *testing.T) {
	r := steps.NewRegistry()
	s := steps.Step{
		ID:        "custom",
		ChildKind: domain.KindStep,
		Build: func(in steps.Inputs) domain.GenerationRequest {
			return domain.GenerationRequest{Prompt: "p"}
		},
	}
	require.NoError(t, r.Register(s))

	t.Run("duplicate id", func(t *testing.T) {
		assert.Error(t, r.Register(s))
	})
	t.Run("missing build", func(t *testing.T) {
		assert.Error(t, r.Register(steps.Step{ID: "nobuild", ChildKind: domain.KindStep}))
	})
	t.Run("bad child kind", func(t *testing.T) {
		bad := s
		bad.ID = "badkind"
		bad.ChildKind = domain.Kind("nope")
		assert.Error(t, r.Register(bad))
	})
}

func TestLookup_Unknown(t *testing.T) {
	r := steps.Default()
	_, err := r.Lookup("no_such_step")
	assert.ErrorIs(t, err, domain.ErrStepNotFound)
}

func TestValidate_MissingStep(t *testing.T) {
	r := steps.NewRegistry()
	err := r.Validate(steps.StepSectors)
	assert.ErrorIs(t, err, domain.ErrStepNotFound)
}

func TestDefaultPipeline_Shape(t *testing.T) {
	pipe := steps.DefaultPipeline()
	require.Len(t, pipe, 1)
	root := pipe[0]
	assert.Equal(t, steps.StepJobContexts, root.StepID)
	assert.Equal(t, 10, root.Count)
	require.Len(t, root.Children, 7)

	jobMap := root.Children[0]
	assert.Equal(t, steps.StepJobMap, jobMap.StepID)
	require.Len(t, jobMap.Children, 2)
	assert.Equal(t, steps.StepDesiredOutcomes, jobMap.Children[0].StepID)
	assert.Equal(t, 20, jobMap.Children[0].Count)

	ideal := root.Children[6]
	assert.Equal(t, steps.StepIdealJobState, ideal.StepID)
	require.Len(t, ideal.Children, 1)
	assert.Equal(t, steps.StepRootCauses, ideal.Children[0].StepID)
}

func TestDefaultPipeline_AllStepsRegistered(t *testing.T) {
	r := steps.Default()
	assert.NoError(t, r.Validate(steps.StepIDsOf(steps.DefaultPipeline())...))
}

func TestTaxonomySteps_BuildPrompts(t *testing.T) {
	r := steps.Default()
	in := steps.Inputs{
		Industry:  "Finance",
		Sector:    "Banking",
		SubSector: "Retail Banking",
		EndUser:   "Bank Teller",
		Count:     10,
		Fidelity:  domain.FidelityMed,
		Node:      &domain.Node{Name: "Retail Banking", Kind: domain.KindSubSector},
	}

	for _, id := range []string{steps.StepSectors, steps.StepSubSectors, steps.StepEndUsersProvider, steps.StepJobsProvider} {
		s, err := r.Lookup(id)
		require.NoError(t, err)
		req := s.Build(in)
		assert.NotEmpty(t, req.Prompt, id)
		assert.NotEmpty(t, req.System, id)
	}

	provider, _ := r.Lookup(steps.StepEndUsersProvider)
	require.NotNil(t, provider.Group)
	assert.Equal(t, steps.GroupProviders, provider.Group.Name)
	assert.Equal(t, domain.KindEndUser, provider.ChildKind)

	jobs, _ := r.Lookup(steps.StepJobsProvider)
	assert.Nil(t, jobs.Group)
	assert.Equal(t, domain.KindJob, jobs.ChildKind)
}
