package domain

import "context"

// TextGenerator is the generative-model capability: a rendered prompt in,
// free-form response text out. Implementations return transport or quota
// errors unclassified; classification happens in the generation service.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
