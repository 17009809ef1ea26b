// Package steps defines the expansion steps the engine can run and the
// registry that binds step ids to prompt builders. Dispatch is explicit:
// every runnable step is registered here by id, and an unknown id is an
// error, never a silent no-op.
package steps

import "github.com/jobatlas/jobatlas/pkg/domain"

// Taxonomy step ids.
const (
	StepSectors           = "sectors"
	StepSubSectors        = "subsectors"
	StepEndUsersProvider  = "end_users_provider"
	StepEndUsersCustomer  = "end_users_customer"
	StepJobsProvider      = "jobs_provider"
	StepJobsCustomer      = "jobs_customer"
)

// Pipeline step ids.
const (
	StepJobContexts           = "job_contexts"
	StepJobMap                = "job_map"
	StepDesiredOutcomes       = "desired_outcomes"
	StepThemedDesiredOutcomes = "themed_desired_outcomes"
	StepSituationalFactors    = "situational_and_complexity_factors"
	StepRelatedJobs           = "related_jobs"
	StepEmotionalJobs         = "emotional_jobs"
	StepSocialJobs            = "social_jobs"
	StepFinancialMetrics      = "financial_metrics_of_purchasing_decision_makers"
	StepIdealJobState         = "ideal_job_state"
	StepRootCauses            = "potential_root_causes_preventing_the_ideal_state"
)

// End-user group names. The two groups split a subsector's audience into the
// roles that deliver its work and the roles that buy its output.
const (
	GroupProviders = "End Users (Providers)"
	GroupCustomers = "End Users (Customers)"
)

// Inputs carries the resolved tree context a step needs to build its prompt.
// The scheduler fills it from the anchor node's ancestor chain.
type Inputs struct {
	Industry   string
	Sector     string
	SubSector  string
	EndUser    string
	Job        string
	JobContext string

	// Node is the anchor node the step expands.
	Node *domain.Node

	Count    int
	Fidelity domain.Fidelity
}

// Group describes an intermediate grouping node a step creates beneath its
// anchor before attaching generated children. Group nodes are structural:
// they are complete the moment they are persisted.
type Group struct {
	Name        string
	Description string
}

// Step binds a step id to the kind of child it produces and the prompt it
// sends. Parsing is uniform across steps, so a step is fully described by
// its Build function.
type Step struct {
	ID        string
	ChildKind domain.Kind

	// Group, when non-nil, is created beneath the anchor and the generated
	// children attach to it instead of the anchor.
	Group *Group

	Build func(in Inputs) domain.GenerationRequest
}
