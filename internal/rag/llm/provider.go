package llm

import "context"

// Provider turns one prompt into one answer with exactly one outbound call.
// An empty string with a nil error means the service answered without text.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
