package ports

import (
	"context"

	"github.com/jobatlas/jobatlas/pkg/domain"
)

// Generator produces free text for a structured generation request. An empty
// result with a nil error is valid and means the model returned nothing
// usable; the engine treats it like a transient failure.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req domain.GenerationRequest) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	return f(ctx, req)
}
