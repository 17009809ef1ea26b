package jobatlas_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jobatlas/jobatlas"
	"github.com/jobatlas/jobatlas/pkg/adapters/memory"
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/ports"
	"github.com/jobatlas/jobatlas/pkg/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listGen answers every prompt with a fixed two-item list, enough to drive
// the whole taxonomy shape end to end.
func listGen() ports.Generator {
	return ports.GeneratorFunc(func(ctx context.Context, req domain.GenerationRequest) (string, error) {
		switch {
		case strings.Contains(req.Prompt, "related sectors"):
			return "1. **Banking**: Deposits and lending.", nil
		case strings.Contains(req.Prompt, "related subsectors"):
			return "1. **Retail Banking**: Consumer accounts.", nil
		case strings.Contains(req.Prompt, "roles"):
			return "1. **Bank Teller**: Handles counter transactions.", nil
		default:
			return "1. **Verifying Identities** - Confirming customers are who they claim.", nil
		}
	})
}

func TestEngine_BuildAndQuery(t *testing.T) {
	engine, err := jobatlas.New(
		jobatlas.WithGenerator(listGen()),
		jobatlas.WithStore(memory.NewStore()),
	)
	require.NoError(t, err)
	ctx := context.Background()

	tree, err := engine.BuildTaxonomy(ctx, "Finance")
	require.NoError(t, err)
	assert.Empty(t, tree.Frontier())

	jobs, err := engine.Jobs(ctx, "Finance")
	require.NoError(t, err)
	require.NotEmpty(t, jobs)
	assert.Equal(t, "Verifying Identities", jobs[0].Name)

	industries, err := engine.Industries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Finance"}, industries)

	md, err := engine.Markdown(ctx, "Finance")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Finance\n"))
	assert.Contains(t, md, "- **Banking**")

	require.NoError(t, engine.Delete(ctx, "Finance"))
	_, err = engine.Tree(ctx, "Finance")
	assert.ErrorIs(t, err, domain.ErrTreeNotFound)
}

func TestEngine_ProcessJob(t *testing.T) {
	engine, err := jobatlas.New(
		jobatlas.WithGenerator(listGen()),
		jobatlas.WithStore(memory.NewStore()),
		jobatlas.WithPipeline([]steps.StepSpec{{StepID: steps.StepJobContexts, Count: 2}}),
	)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = engine.BuildTaxonomy(ctx, "Finance")
	require.NoError(t, err)

	jobs, err := engine.Jobs(ctx, "Finance")
	require.NoError(t, err)
	require.NotEmpty(t, jobs)

	tree, err := engine.ProcessJob(ctx, "Finance", jobs[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, tree.Children(jobs[0].ID))
}

func TestNew_RequiresGenerator(t *testing.T) {
	_, err := jobatlas.New(jobatlas.WithStore(memory.NewStore()))
	assert.ErrorContains(t, err, "generator")
}
