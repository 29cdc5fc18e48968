package text

import "context"

// GenerateRequest carries one content-generation call.
type GenerateRequest struct {
	Prompt string
	// Model overrides the provider's configured model when set.
	Model string
}

// Generator turns a prompt into article text. Implementations must return
// an error on transport or provider failure so the job-level retry policy
// can take over; they never substitute content silently.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderFallback = "fallback"
)
