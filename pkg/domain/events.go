package domain

// Hooks are optional lifecycle callbacks for observability. All fields may
// be nil; the engine checks before invoking. Callbacks must be fast and
// must not block the expansion loop.
type Hooks struct {
	// OnGenerate fires before each gateway call.
	OnGenerate func(stepID string)
	// OnGenerateError fires when a gateway call fails or returns empty text.
	OnGenerateError func(stepID string)
	// OnParseDropped fires when the parser drops unmatched lines.
	OnParseDropped func(stepID string, lines int)
	// OnNodeCreated fires once per created child node.
	OnNodeCreated func(kind Kind)
	// OnNodeComplete fires when a node is marked complete and persisted.
	OnNodeComplete func(kind Kind)
}

// Merge overlays non-nil callbacks of other onto a copy of h.
func (h Hooks) Merge(other Hooks) Hooks {
	out := h
	if other.OnGenerate != nil {
		out.OnGenerate = other.OnGenerate
	}
	if other.OnGenerateError != nil {
		out.OnGenerateError = other.OnGenerateError
	}
	if other.OnParseDropped != nil {
		out.OnParseDropped = other.OnParseDropped
	}
	if other.OnNodeCreated != nil {
		out.OnNodeCreated = other.OnNodeCreated
	}
	if other.OnNodeComplete != nil {
		out.OnNodeComplete = other.OnNodeComplete
	}
	return out
}
