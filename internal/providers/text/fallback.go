package text

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackGenerator produces deterministic offline copy when no provider
// API key is configured. Development convenience only; it makes no network
// calls and never fails.
type FallbackGenerator struct{}

func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

var _ Generator = (*FallbackGenerator)(nil)

var titler = cases.Title(language.English)

func (f *FallbackGenerator) Generate(_ context.Context, req GenerateRequest) (string, error) {
	subject := extractSubject(req.Prompt)
	heading := titler.String(subject)
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", heading)
	fmt.Fprintf(&b, "%s has been drawing attention lately, and for good reason. ", heading)
	b.WriteString("This overview looks at what makes it worth watching, from its premise to the craft behind it.\n\n")
	fmt.Fprintf(&b, "Viewers who enjoy character-driven stories will find plenty to like in %s. ", heading)
	b.WriteString("The pacing rewards patience, and the production design pulls more weight than a quick synopsis suggests.\n\n")
	b.WriteString("Whether it earns a place in your queue comes down to taste, but it is an easy recommendation for a weekend watch.\n")
	return b.String(), nil
}

// extractSubject pulls the quoted title out of the engine's prompt, falling
// back to a generic subject when the prompt has no quoted span.
func extractSubject(prompt string) string {
	if start := strings.IndexByte(prompt, '"'); start >= 0 {
		rest := prompt[start+1:]
		if end := strings.IndexByte(rest, '"'); end > 0 {
			return rest[:end]
		}
	}
	return "this title"
}
