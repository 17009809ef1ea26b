package expand_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jobatlas/jobatlas/internal/expand"
	"github.com/jobatlas/jobatlas/pkg/adapters/memory"
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/ports"
	"github.com/jobatlas/jobatlas/pkg/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptGen routes each prompt to a canned numbered list by matching
// distinctive prompt fragments, and counts calls per route.
type scriptGen struct {
	mu    sync.Mutex
	calls map[string]int
	total int

	// failAt, when > 0, makes that call number (1-based) fail once.
	failAt int
	failed bool
}

func newScriptGen() *scriptGen {
	return &scriptGen{calls: map[string]int{}}
}

var routes = []struct {
	key      string
	fragment string
	text     string
}{
	{"root_causes", "root causes preventing", "1. **Manual Checks** - Verification still depends on manual review."},
	{"ideal", "attributes of the ideal state", "1. **Instant Verification** - Identity confirmed in seconds.\n2. **Zero Errors** - No false rejections."},
	{"financial", "financial metrics", "1. **Cost per Transaction** - Fully loaded cost of each verification."},
	{"social", "social jobs", "1. **Appearing Competent** - Being seen as thorough by colleagues."},
	{"emotional", "emotional jobs", "1. **Feeling Confident** - Trusting the verification will hold up."},
	{"related", "related jobs", "1. **Updating Records** - Keeping account records current."},
	{"situational", "situational and complexity factors", "1. **Peak Hours** - Queues grow and time pressure rises."},
	{"themes", "outcome themes", "1. **Speed** - Outcomes about reducing time."},
	{"jobs_customer", "by using them", "1. **Tracking Spending** - Following where money goes month to month."},
	{"outcomes", "desired outcomes", "1. **Minimize Wait** - Minimize the time a customer waits.\n2. **Minimize Rework** - Minimize repeated document requests."},
	{"job_map", "sequential phases", "1. **Plan the Check** - The ability to decide what to verify.\n2. **Verify Documents** - The ability to confirm documents are genuine."},
	{"contexts", "contexts in which you could be", "1. **Branch Counter** - Serving a customer face to face.\n2. **Phone Support** - Verifying a caller remotely."},
	{"jobs_provider", "core to the existence", "1. **Verifying Identities** - Confirming customers are who they claim.\n2. **Detecting Fraud** - Spotting suspicious transactions."},
	{"end_users_customer", "purchase the sector's products", "1. **Account Holder**: A person with a deposit account."},
	{"end_users_provider", "support the work or service", "1. **Bank Teller**: Handles counter transactions."},
	{"subsectors", "related subsectors", "1. **Retail Banking**: Consumer accounts and branches."},
	{"sectors", "related sectors", "1. **Banking**: Deposits and lending.\n2. **Insurance**: Risk pooling."},
}

func (g *scriptGen) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.total++
	if g.failAt > 0 && g.total == g.failAt && !g.failed {
		g.failed = true
		return "", errors.New("gateway unavailable")
	}
	for _, r := range routes {
		if strings.Contains(req.Prompt, r.fragment) {
			g.calls[r.key]++
			return r.text, nil
		}
	}
	return "", errors.New("unrecognized prompt")
}

func (g *scriptGen) count(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[key]
}

func newScheduler(t *testing.T, store ports.TreeStore, gen ports.Generator) *expand.Scheduler {
	t.Helper()
	s, err := expand.New(store, gen, nil, expand.WithCounts(1, 2))
	require.NoError(t, err)
	return s
}

func TestBuildTaxonomy_FullRun(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	s := newScheduler(t, store, gen)

	tree, err := s.BuildTaxonomy(context.Background(), "Finance")
	require.NoError(t, err)
	require.NoError(t, tree.Validate())
	assert.Empty(t, tree.Frontier())

	sectors := tree.Children(tree.RootID)
	require.Len(t, sectors, 2)
	assert.Equal(t, "Banking", sectors[0].Name)
	assert.True(t, sectors[0].Complete)

	subs := tree.Children(sectors[0].ID)
	require.Len(t, subs, 1)

	groups := tree.Children(subs[0].ID)
	require.Len(t, groups, 2)
	assert.Equal(t, steps.GroupProviders, groups[0].Name)
	assert.Equal(t, steps.GroupCustomers, groups[1].Name)
	assert.True(t, groups[0].Complete)

	providers := tree.Children(groups[0].ID)
	require.Len(t, providers, 1)
	assert.Equal(t, "Bank Teller", providers[0].Name)

	jobs := tree.Children(providers[0].ID)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Verifying Identities", jobs[0].Name)
	assert.True(t, jobs[0].Complete, "jobs are complete at creation")

	customers := tree.Children(groups[1].ID)
	require.Len(t, customers, 1)
	customerJobs := tree.Children(customers[0].ID)
	require.Len(t, customerJobs, 1)
	assert.Equal(t, "Tracking Spending", customerJobs[0].Name, "customer roles get customer job prompts")

	// Persisted state matches the in-memory result.
	loaded, err := store.LoadTree(context.Background(), "Finance")
	require.NoError(t, err)
	assert.Equal(t, tree.Len(), loaded.Len())
	assert.Empty(t, loaded.Frontier())
}

func TestBuildTaxonomy_SecondRunIsNoOp(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	s := newScheduler(t, store, gen)

	_, err := s.BuildTaxonomy(context.Background(), "Finance")
	require.NoError(t, err)
	before := gen.total

	_, err = s.BuildTaxonomy(context.Background(), "Finance")
	require.NoError(t, err)
	assert.Equal(t, before, gen.total, "a finished tree must trigger no generation")
}

func TestBuildTaxonomy_ResumeAfterFailure(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	gen.failAt = 3 // fail the first subsector's end-user expansion
	s := newScheduler(t, store, gen)

	_, err := s.BuildTaxonomy(context.Background(), "Finance")
	require.NoError(t, err, "one node's failure does not abort the run")

	// The work done around the failure is durable.
	partial, err := store.LoadTree(context.Background(), "Finance")
	require.NoError(t, err)
	assert.NotEmpty(t, partial.Frontier(), "the failed node stays incomplete")
	assert.True(t, partial.Root().Complete, "completed nodes stay complete")

	sectorsBefore := gen.count("sectors")

	tree, err := s.BuildTaxonomy(context.Background(), "Finance")
	require.NoError(t, err)
	assert.Empty(t, tree.Frontier())
	assert.Equal(t, sectorsBefore, gen.count("sectors"), "resume must not regenerate completed nodes")
}

func TestBuildTaxonomy_FailureDoesNotStopSiblings(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	gen.failAt = 2 // fail the first sector's subsector expansion
	s := newScheduler(t, store, gen)

	tree, err := s.BuildTaxonomy(context.Background(), "Finance")
	require.NoError(t, err)

	sectors := tree.Children(tree.RootID)
	require.Len(t, sectors, 2)
	assert.False(t, sectors[0].Complete, "the failed sector stays incomplete")
	assert.Empty(t, tree.Children(sectors[0].ID))

	// The sibling sector is expanded all the way down in the same run.
	assert.True(t, sectors[1].Complete)
	assert.Equal(t, 1, gen.count("subsectors"))
	subs := tree.Children(sectors[1].ID)
	require.Len(t, subs, 1)
	assert.NotEmpty(t, tree.Children(subs[0].ID))
}

func TestBuildTaxonomy_EmptyOutputLeavesNodeIncomplete(t *testing.T) {
	store := memory.NewStore()
	var errorFired bool
	gen := ports.GeneratorFunc(func(ctx context.Context, req domain.GenerationRequest) (string, error) {
		return "", nil
	})
	s, err := expand.New(store, gen, nil, expand.WithHooks(domain.Hooks{
		OnGenerateError: func(stepID string) { errorFired = true },
	}))
	require.NoError(t, err)

	_, err = s.BuildTaxonomy(context.Background(), "Finance")
	require.NoError(t, err)
	assert.True(t, errorFired)

	// Root stays incomplete so the next run retries it.
	tree, err := store.LoadTree(context.Background(), "Finance")
	require.NoError(t, err)
	assert.False(t, tree.Root().Complete)
	assert.NotEmpty(t, tree.Frontier())
}

func TestBuildTaxonomy_NoRecordsIsValidEmpty(t *testing.T) {
	store := memory.NewStore()
	var calls int
	gen := ports.GeneratorFunc(func(ctx context.Context, req domain.GenerationRequest) (string, error) {
		calls++
		return "There are no sectors to list here.", nil
	})
	s, err := expand.New(store, gen, nil)
	require.NoError(t, err)

	tree, err := s.BuildTaxonomy(context.Background(), "Empty Industry")
	require.NoError(t, err)
	assert.True(t, tree.Root().Complete)
	assert.Empty(t, tree.Children(tree.RootID))
	assert.Contains(t, tree.Root().EmptySteps, steps.StepSectors, "the empty outcome is recorded")
	assert.Equal(t, 1, calls)
}

func TestBuildTaxonomy_Hooks(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	var created, completed int
	s, err := expand.New(store, gen, nil,
		expand.WithCounts(1, 2),
		expand.WithHooks(domain.Hooks{
			OnNodeCreated:  func(kind domain.Kind) { created++ },
			OnNodeComplete: func(kind domain.Kind) { completed++ },
		}))
	require.NoError(t, err)

	tree, err := s.BuildTaxonomy(context.Background(), "Finance")
	require.NoError(t, err)
	assert.Equal(t, tree.Len()-1, created, "every node except the root fires OnNodeCreated")
	assert.Positive(t, completed)
}

func TestBuildTaxonomy_ContextCancellation(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()
	s := newScheduler(t, store, gen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.BuildTaxonomy(ctx, "Finance")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Validation(t *testing.T) {
	store := memory.NewStore()
	gen := newScriptGen()

	_, err := expand.New(nil, gen, nil)
	assert.Error(t, err)

	_, err = expand.New(store, nil, nil)
	assert.Error(t, err)

	_, err = expand.New(store, gen, steps.NewRegistry())
	assert.ErrorIs(t, err, domain.ErrStepNotFound)
}
