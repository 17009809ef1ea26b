package steps

import (
	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/prompt"
)

func registerTaxonomy(r *Registry) {
	mustRegister(r, Step{
		ID:        StepSectors,
		ChildKind: domain.KindSector,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.Sectors(in.Industry, in.Fidelity))
		},
	})

	mustRegister(r, Step{
		ID:        StepSubSectors,
		ChildKind: domain.KindSubSector,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.SubSectors(in.Industry, in.Sector, in.Fidelity))
		},
	})

	mustRegister(r, Step{
		ID:        StepEndUsersProvider,
		ChildKind: domain.KindEndUser,
		Group: &Group{
			Name:        GroupProviders,
			Description: "Roles that perform or support the work of this subsector.",
		},
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.EndUsersProvider(in.Industry, in.Sector, in.SubSector, in.Count, in.Fidelity))
		},
	})

	mustRegister(r, Step{
		ID:        StepEndUsersCustomer,
		ChildKind: domain.KindEndUser,
		Group: &Group{
			Name:        GroupCustomers,
			Description: "Roles that purchase and benefit from this subsector's products and services.",
		},
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.EndUsersCustomer(in.Industry, in.Sector, in.SubSector, in.Count, in.Fidelity))
		},
	})

	mustRegister(r, Step{
		ID:        StepJobsProvider,
		ChildKind: domain.KindJob,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.JobsProvider(in.EndUser, in.Industry, in.Sector, in.SubSector, in.Count))
		},
	})

	mustRegister(r, Step{
		ID:        StepJobsCustomer,
		ChildKind: domain.KindJob,
		Build: func(in Inputs) domain.GenerationRequest {
			return request(prompt.JobsCustomer(in.EndUser, in.Industry, in.Sector, in.SubSector, in.Count))
		},
	})
}

func request(p string) domain.GenerationRequest {
	return domain.GenerationRequest{System: prompt.System, Prompt: p}
}
