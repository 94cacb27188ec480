package port

import "context"

// Generator abstracts the text-generation capability used per chunk.
// Implementations return the raw model output; callers own prompt
// construction and output parsing.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
