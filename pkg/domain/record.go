package domain

// Record is one parsed {name, description} pair extracted from gateway
// output. Each record becomes exactly one child node.
type Record struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Fidelity controls how exhaustive the generated lists should be.
type Fidelity string

const (
	FidelityLow           Fidelity = "low"
	FidelityMed           Fidelity = "med"
	FidelityHigh          Fidelity = "high"
	FidelityComprehensive Fidelity = "comprehensive"
)

// GenerationRequest is the structured request handed to the generation
// gateway. The gateway turns it into free text; the engine never inspects
// the prompt again after building it.
type GenerationRequest struct {
	// System sets the assistant persona.
	System string
	// Prompt is the full user prompt.
	Prompt string
	// Temperature overrides the gateway default when > 0.
	Temperature float32
	// MaxTokens overrides the gateway default when > 0.
	MaxTokens int
}
