package steps

import (
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/prompt"
)

// StepSpec is one node of a declarative pipeline: which step to run, how
// many records to ask for, and which specs to run beneath the first child
// the step creates.
type StepSpec struct {
	StepID   string     `json:"step_id" yaml:"step_id" mapstructure:"step_id"`
	Count    int        `json:"count" yaml:"count" mapstructure:"count"`
	Children []StepSpec `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
}

// DefaultPipeline is the analysis tree run beneath each job: contexts first,
// then the per-context analyses, with the job map and ideal state carrying
// their own nested drill-downs. Counts follow the shipped defaults.
func DefaultPipeline() []StepSpec {
	return []StepSpec{
		{
			StepID: StepJobContexts,
			Count:  10,
			Children: []StepSpec{
				{
					StepID: StepJobMap,
					Children: []StepSpec{
						{StepID: StepDesiredOutcomes, Count: 20},
						{StepID: StepThemedDesiredOutcomes, Count: 10},
					},
				},
				{StepID: StepSituationalFactors, Count: 10},
				{StepID: StepRelatedJobs, Count: 10},
				{StepID: StepEmotionalJobs, Count: 10},
				{StepID: StepSocialJobs, Count: 10},
				{StepID: StepFinancialMetrics, Count: 10},
				{
					StepID: StepIdealJobState,
					Count:  15,
					Children: []StepSpec{
						{StepID: StepRootCauses, Count: 15},
					},
				},
			},
		},
	}
}

// StepIDsOf collects every step id a pipeline spec references, depth first.
func StepIDsOf(specs []StepSpec) []string {
	var ids []string
	var walk func(specs []StepSpec)
	walk = func(specs []StepSpec) {
		for _, s := range specs {
			ids = append(ids, s.StepID)
			walk(s.Children)
		}
	}
	walk(specs)
	return ids
}

func registerPipeline(r *Registry) {
	mustRegister(r, Step{
		ID:        StepJobContexts,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.JobContexts(in.EndUser, in.Job, in.Count))
		},
	})

	mustRegister(r, Step{
		ID:        StepJobMap,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.JobMap(in.EndUser, in.Job, in.JobContext, in.Fidelity))
		},
	})

	mustRegister(r, Step{
		ID:        StepDesiredOutcomes,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.DesiredOutcomes(in.EndUser, in.Job, in.JobContext, in.Node.Name, in.Count))
		},
	})

	mustRegister(r, Step{
		ID:        StepThemedDesiredOutcomes,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.ThemedDesiredOutcomes(in.EndUser, in.Job, in.JobContext, in.Node.Name, in.Count))
		},
	})

	mustRegister(r, Step{
		ID:        StepSituationalFactors,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.SituationalFactors(in.EndUser, in.Job, in.JobContext, in.Count))
		},
	})

	mustRegister(r, Step{
		ID:        StepRelatedJobs,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.RelatedJobs(in.EndUser, in.Job, in.JobContext, in.Count))
		},
	})

	mustRegister(r, Step{
		ID:        StepEmotionalJobs,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.EmotionalJobs(in.EndUser, in.Job, in.JobContext, in.Count))
		},
	})

	mustRegister(r, Step{
		ID:        StepSocialJobs,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.SocialJobs(in.EndUser, in.Job, in.JobContext, in.Count))
		},
	})

	mustRegister(r, Step{
		ID:        StepFinancialMetrics,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.FinancialMetrics(in.EndUser, in.Job, in.JobContext, in.Count))
		},
	})

	mustRegister(r, Step{
		ID:        StepIdealJobState,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.IdealJobState(in.EndUser, in.Job, in.JobContext, in.Count))
		},
	})

	mustRegister(r, Step{
		ID:        StepRootCauses,
		ChildKind: domain.KindStep,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.RootCauses(in.EndUser, in.Job, in.JobContext, in.Node.Name, in.Count))
		},
	})
}
