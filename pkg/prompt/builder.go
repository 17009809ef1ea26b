// Package prompt builds the generation prompts for every expansion step.
// Builders are pure string assembly; counts and fidelity arrive as arguments
// so callers stay in control of sizing.
package prompt

import (
	"fmt"

	"github.com/jobatlas/jobatlas/pkg/domain"
)

// System is the persona sent with every generation request.
const System = "You are a helpful jobs-to-be-done job mapping research expert."

// listFormat is the shared output contract. Every prompt asks for the same
// numbered bold list so one parser covers all steps.
const listFormat = "Output as a numbered list in markdown. Output the name in bold. " +
	"Separate the name and description with a hyphen or colon so they are on the same line. " +
	"Do not output anything before or after the list."

// gerundVerbs is the verb guidance for job statements, shared by the
// provider and customer job prompts.
const gerundVerbs = `A job statement should begin with a verb ending in "ing" (the gerund form of a verb).
Do not use general terms without a discrete output, like "Managing", at the beginning of the job statement.
Allocate 80% of the output to common functional verbs such as:
Achieving, Confirming, Coordinating, Correcting, Creating, Detecting, Determining,
Developing, Discovering, Ensuring, Finding, Fixing, Helping, Identifying, Improving,
Keeping, Learning, Locating, Maintaining, Obtaining, Planning, Preparing, Preventing,
Protecting, Providing, Removing, Staying, Stopping, Teaching, Understanding, Updating, Verifying.`

// Sectors asks for the sectors of an industry.
func Sectors(industry string, fidelity domain.Fidelity) string {
	return fmt.Sprintf(`Act as an expert in industry classification. Within the %s industry, create a %s list of all the related sectors and include a brief description of each. For example, within the **Agriculture, Forestry, Fishing, and Hunting** industry, one such sector might be **Animal Production and Aquaculture**.

The structure of your response should be as follows:

1. **Animal Production and Aquaculture**: This covers livestock farming, dairy production, poultry and egg production, and aquaculture.

%s

industry: %s
fidelity: %s`, industry, fidelity, listFormat, industry, fidelity)
}

// SubSectors asks for the subsectors of a sector.
func SubSectors(industry, sector string, fidelity domain.Fidelity) string {
	return fmt.Sprintf(`Act as an expert in industry classification. Within the %s industry, and then within the %s sector, create a %s list of related subsectors (or all types of products the sector produces) and include a brief description of each. For example, within the **Animal Production and Aquaculture** sector, one such subsector might be **Dairy Cattle and Milk Production**.

The structure of your response should be as follows:

1. **Dairy Cattle and Milk Production**: This involves raising cattle for milk and dairy products.

%s

industry: %s
sector: %s
fidelity: %s`, industry, sector, fidelity, listFormat, industry, sector, fidelity)
}

// EndUsersProvider asks for the roles that perform the work of a subsector.
func EndUsersProvider(industry, sector, subsector string, n int, fidelity domain.Fidelity) string {
	return fmt.Sprintf(`Act as an expert in industry classification. Within the %s industry, and then within the %s sector, and then within the %s subsector, create a %s list of %d related roles that support the work or service, and include a brief description of each. For example, within the **Dairy Cattle and Milk Production** subsector the role might be **Dairy Farmer**.

The structure of your response should be as follows:

1. **Role**: This is where you describe the role.

Do theme-up roles if the count is small, and break them down when the count is larger.

%s

industry: %s
sector: %s
subsector: %s
n: %d
fidelity: %s`, industry, sector, subsector, fidelity, n, listFormat, industry, sector, subsector, n, fidelity)
}

// EndUsersCustomer asks for the roles that purchase and benefit from a
// subsector's products and services.
func EndUsersCustomer(industry, sector, subsector string, n int, fidelity domain.Fidelity) string {
	return fmt.Sprintf(`Act as an expert in industry classification. Within the %s industry, and then within the %s sector, and then within the %s subsector, create a %s list of %d end user roles: people who purchase the sector's products and services and benefit from related solutions. Include a brief description of each. For example, within the **Customer Relationship Management (CRM) Software** subsector the role might be **Marketing Analyst**; in the **Plumbing, Heating, and Air-Conditioning** sector the role might be a home owner.

The structure of your response should be as follows:

1. **Role**: This is where you describe the role.

Do theme-up customer types if the count is small, and break them down when the count is larger.

%s

industry: %s
sector: %s
subsector: %s
n: %d
fidelity: %s`, industry, sector, subsector, fidelity, n, listFormat, industry, sector, subsector, n, fidelity)
}

// JobsProvider asks for the jobs-to-be-done of a role that performs the work
// of the subsector.
func JobsProvider(endUser, industry, sector, subsector string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who works in the %s industry with a specialty focus in the %s sector and %s subsector. I do not want to know what %ss are doing in the industry. I want to know what they could be ultimately trying to accomplish given their role, aligned with desired customer outcomes, not company outcomes.

If the industry is healthcare and the sector is Hospitals, I do not want to know that they "process patients"; I want to know that they are "offering emergency services". If the industry is construction, I do not want to know that they are fastening two pieces of wood together; I want to know what they are trying to build.

We're going to call what they are trying to accomplish "Jobs-to-be-Done". Generate a list of %d jobs that the %s is trying to get done. These should be core to the existence of the industry and sector, not one-offs or ad-hoc jobs.

%s

Explain each job after a hyphen, as in:

1. **Searing Meat** - The ability to create a caramelized crust on the exterior of a meat cut by applying high heat quickly.

Do theme-up jobs if the count is small, and break them down when the count is larger.

%s

End user: %s
industry: %s
sector: %s
subsector: %s
n: %d`, endUser, industry, sector, subsector, endUser, n, endUser, gerundVerbs, listFormat, endUser, industry, sector, subsector, n)
}

// JobsCustomer asks for the jobs-to-be-done of a role that uses the
// subsector's solutions.
func JobsCustomer(endUser, industry, sector, subsector string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who works with solutions offered by the %s industry, %s sector and %s subsector. I do not want to know what %ss are doing with those solutions. I want to know what they could be ultimately trying to accomplish by using them, aligned with their own desired outcomes, not the outcomes of the company offering the solution.

If the subsector is Customer Relationship Management (CRM) Software, I do not want to know that a Marketing Manager "launches marketing campaigns"; I want to know that they are "developing qualified leads".

We're going to call what they are trying to accomplish "Jobs-to-be-Done". Generate a list of %d jobs that the %s is trying to get done. These should be tightly tied to the solutions offered by the industry, sector and subsector, not one-offs or ad-hoc jobs.

%s

Explain each job after a hyphen, as in:

1. **Searing Meat** - The ability to create a caramelized crust on the exterior of a meat cut by applying high heat quickly.

Do theme-up jobs if the count is small, and break them down when the count is larger.

%s

End user: %s
industry: %s
sector: %s
subsector: %s
n: %d`, endUser, industry, sector, subsector, endUser, n, endUser, gerundVerbs, listFormat, endUser, industry, sector, subsector, n)
}

// JobContexts asks for the contexts in which an end user performs a job.
func JobContexts(endUser, job string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who is %s. List %d contexts in which you could be %s.

The term context refers to the surrounding information necessary to understand the problem and find a solution: observing what is going on in the environment, identifying things that could be changed or improved, diagnosing why the current state is the way it is, developing approaches to influence change, deciding which alternative to select, taking action, and observing the impact of those actions.

Explain each context, as in:

1. **IT Managed Services Provider** - A company looking to outsource the management of their IT infrastructure.

%s

End user: %s
Job: %s
n: %d`, endUser, job, n, job, listFormat, endUser, job, n)
}

// JobMap asks for the ordered steps of a job across the nine job phases.
func JobMap(endUser, job, context string, fidelity domain.Fidelity) string {
	return fmt.Sprintf(`Act as a(n) %s with deep expertise in Jobs-to-be-Done theory. Jobs have steps, much like a process, but steps do not indicate how the %s does something; they represent what the %s must accomplish. Steps fall under 9 sequential phases:

1. **Define**: what must be defined, planned or assessed upfront to proceed.
2. **Locate**: what items or resources must be located, gathered or accessed.
3. **Prepare**: how inputs or the environment must be prepared or set up.
4. **Confirm**: what must be verified, prioritized or decided before executing.
5. **Execute**: the primary thing that must be done to execute the job. There must ALWAYS be at least one step for this phase, reflecting the core objective.
6. **Monitor**: what must be watched in real time to keep the job on track.
7. **Resolve**: what problems might need to be troubleshot, restored or fixed.
8. **Modify**: what might need to be altered or adjusted to finish successfully.
9. **Conclude**: what must be done to finish the job.

Do not assume a method or solution unless it is provided in the job or context inputs. Do not reference the phase name in a step name.

The Job-to-be-Done for the %s is %s %s. Only consider the context if one is supplied. Generate a list of job steps covering every phase, with a minimum of one step per phase. Steps must begin with a verb: a bad step is "Route Planning", a good step is "Plan the route". The steps must be mutually exclusive, collectively exhaustive and in logical order.

An ideal job map has 10 to 18 steps: closer to 10 for low fidelity, 14 for med, 18 for high.

Make each step name bold, precede each explanation with "The ability to", and append it after a hyphen:

1. **Obtain Necessary Permits** - The ability to secure transportation and operation permits, ensuring all legal requirements are met.

%s

job: %s
context: %s
end user: %s
fidelity: %s`, endUser, endUser, endUser, endUser, job, context, listFormat, job, context, endUser, fidelity)
}

// DesiredOutcomes asks for the desired outcome statements of one job step.
func DesiredOutcomes(endUser, job, context, step string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who is %s %s. For the job step %q, generate a list of %d desired outcomes. A desired outcome is a metric the %s uses to measure success while executing this step, stated as a direction of improvement, a unit of measure, and an object of control. Examples of direction: minimize, increase. Example outcome: "Minimize the time it takes to verify the route is correct."

Name each outcome in bold and explain it after a hyphen.

%s

End user: %s
Job: %s
Step: %s
n: %d`, endUser, job, context, step, n, endUser, listFormat, endUser, job, step, n)
}

// ThemedDesiredOutcomes asks for thematic groupings of a step's outcomes.
func ThemedDesiredOutcomes(endUser, job, context, step string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who is %s %s. For the job step %q, generate a list of %d outcome themes: higher-level groupings that related desired outcomes fall under, such as speed, accuracy, reliability, cost, effort or risk, made specific to this step.

Name each theme in bold and explain after a hyphen which outcomes it gathers.

%s

End user: %s
Job: %s
Step: %s
n: %d`, endUser, job, context, step, n, listFormat, endUser, job, step, n)
}

// SituationalFactors asks for the situational and complexity factors that
// make a job harder in some circumstances.
func SituationalFactors(endUser, job, context string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who is %s %s. Generate a list of %d situational and complexity factors: circumstances that make getting this job done significantly harder, slower or riskier for some %ss than for others. Think of environment, scale, constraints, regulation, variability and dependencies.

Name each factor in bold and explain after a hyphen how it complicates the job.

%s

End user: %s
Job: %s
n: %d`, endUser, job, context, n, endUser, listFormat, endUser, job, n)
}

// RelatedJobs asks for adjacent jobs done before, during or after the job.
func RelatedJobs(endUser, job, context string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who is %s %s. Generate a list of %d related jobs: other jobs the %s tries to get done immediately before, during or after this job, which a complete solution might also address. Each related job statement should begin with a verb ending in "ing".

Name each related job in bold and explain it after a hyphen.

%s

End user: %s
Job: %s
n: %d`, endUser, job, context, n, endUser, listFormat, endUser, job, n)
}

// EmotionalJobs asks how the end user wants to feel while doing the job.
func EmotionalJobs(endUser, job, context string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who is %s %s. Generate a list of %d emotional jobs: how the %s wants to feel, or wants to avoid feeling, while getting this job done. Examples: feeling confident the work will hold up, avoiding the anxiety of missing a deadline.

Name each emotional job in bold and explain it after a hyphen.

%s

End user: %s
Job: %s
n: %d`, endUser, job, context, n, endUser, listFormat, endUser, job, n)
}

// SocialJobs asks how the end user wants to be perceived while doing the job.
func SocialJobs(endUser, job, context string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who is %s %s. Generate a list of %d social jobs: how the %s wants to be perceived by others (colleagues, customers, management, peers) while getting this job done.

Name each social job in bold and explain it after a hyphen.

%s

End user: %s
Job: %s
n: %d`, endUser, job, context, n, endUser, listFormat, endUser, job, n)
}

// FinancialMetrics asks for the financial metrics of the purchasing decision
// makers around the job.
func FinancialMetrics(endUser, job, context string, n int) string {
	return fmt.Sprintf(`Act as the purchasing decision maker responsible for a(n) %s who is %s %s. Generate a list of %d financial metrics the decision maker uses to evaluate solutions that help get this job done: cost of labor, cost of errors, throughput, utilization, revenue impact, compliance exposure and the like, made specific to this job.

Name each metric in bold and explain it after a hyphen.

%s

End user: %s
Job: %s
n: %d`, endUser, job, context, n, listFormat, endUser, job, n)
}

// IdealJobState asks what a perfect execution of the job looks like.
func IdealJobState(endUser, job, context string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who is %s %s. Generate a list of %d attributes of the ideal state of this job: what getting the job done would look like if it were instant, error free, effortless and complete, regardless of current solutions.

Name each attribute in bold and explain it after a hyphen.

%s

End user: %s
Job: %s
n: %d`, endUser, job, context, n, listFormat, endUser, job, n)
}

// RootCauses asks what prevents the ideal state from being reached today.
func RootCauses(endUser, job, context, ideal string, n int) string {
	return fmt.Sprintf(`Act as a(n) %s who is %s %s. The ideal state of this job includes: %s. Generate a list of %d potential root causes preventing that ideal state today: missing information, missing capabilities, process gaps, tool limitations, skill gaps or structural constraints.

Name each root cause in bold and explain it after a hyphen.

%s

End user: %s
Job: %s
n: %d`, endUser, job, context, ideal, n, listFormat, endUser, job, n)
}
