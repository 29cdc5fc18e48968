package text

import (
	"fmt"
	"net/http"
	"strings"
)

// FactoryOptions carries the per-provider connection settings used when a
// job resolves to that provider.
type FactoryOptions struct {
	GeminiBaseURL string
	GeminiModel   string
	OpenAIBaseURL string
	OpenAIModel   string
	HTTPClient    *http.Client
}

// Factory builds a Generator variant keyed on the provider id, so provider
// selection happens in one place instead of type switches in the engine.
type Factory struct {
	opts FactoryOptions
}

func NewFactory(opts FactoryOptions) *Factory {
	return &Factory{opts: opts}
}

// New returns the Generator for the provider id using the given API key.
// An empty key always yields the offline fallback variant.
func (f *Factory) New(provider, apiKey string) (Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return NewFallbackGenerator(), nil
	}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderGemini, "":
		return NewGeminiGenerator(GeminiOptions{
			APIKey:     apiKey,
			Model:      f.opts.GeminiModel,
			BaseURL:    f.opts.GeminiBaseURL,
			HTTPClient: f.opts.HTTPClient,
		})
	case ProviderOpenAI:
		return NewOpenAIGenerator(OpenAIOptions{
			APIKey:     apiKey,
			Model:      f.opts.OpenAIModel,
			BaseURL:    f.opts.OpenAIBaseURL,
			HTTPClient: f.opts.HTTPClient,
		})
	case ProviderFallback:
		return NewFallbackGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported text provider %q", provider)
	}
}

// ProviderForModel infers the provider from a model id; model names are the
// caller-facing knob, so "gpt-*" routes to openai and everything else to
// the configured default.
func ProviderForModel(model, defaultProvider string) string {
	model = strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"):
		return ProviderOpenAI
	case strings.HasPrefix(model, "gemini"):
		return ProviderGemini
	case defaultProvider != "":
		return defaultProvider
	default:
		return ProviderGemini
	}
}
