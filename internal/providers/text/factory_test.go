package text

import (
	"context"
	"strings"
	"testing"
)

func TestProviderForModel(t *testing.T) {
	cases := []struct {
		model        string
		defaultProv  string
		wantProvider string
	}{
		{"gpt-4o-mini", ProviderGemini, ProviderOpenAI},
		{"o1-preview", ProviderGemini, ProviderOpenAI},
		{"o3-mini", ProviderGemini, ProviderOpenAI},
		{"gemini-1.5-flash", ProviderOpenAI, ProviderGemini},
		{"", ProviderOpenAI, ProviderOpenAI},
		{"mystery-model", ProviderGemini, ProviderGemini},
	}
	for _, tc := range cases {
		if got := ProviderForModel(tc.model, tc.defaultProv); got != tc.wantProvider {
			t.Fatalf("model %q default %q: got %q, want %q", tc.model, tc.defaultProv, got, tc.wantProvider)
		}
	}
}

func TestFactoryEmptyKeyYieldsFallback(t *testing.T) {
	factory := NewFactory(FactoryOptions{})
	gen, err := factory.New(ProviderGemini, "")
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if _, ok := gen.(*FallbackGenerator); !ok {
		t.Fatalf("expected fallback generator, got %T", gen)
	}
}

func TestFactoryProviderSelection(t *testing.T) {
	factory := NewFactory(FactoryOptions{})

	gen, err := factory.New(ProviderGemini, "key")
	if err != nil {
		t.Fatalf("gemini: %v", err)
	}
	if _, ok := gen.(*GeminiGenerator); !ok {
		t.Fatalf("expected gemini generator, got %T", gen)
	}

	gen, err = factory.New(ProviderOpenAI, "key")
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	if _, ok := gen.(*OpenAIGenerator); !ok {
		t.Fatalf("expected openai generator, got %T", gen)
	}
}

func TestFallbackGeneratorUsesPromptSubject(t *testing.T) {
	gen := NewFallbackGenerator()
	content, err := gen.Generate(context.Background(), GenerateRequest{
		Prompt: `Write an engaging, spoiler-light blog article about the movie "blade runner".`,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(content, "# Blade Runner") {
		t.Fatalf("expected title-cased heading, got %q", content[:40])
	}
	if len(strings.Fields(content)) < 50 {
		t.Fatal("fallback article suspiciously short")
	}
}
