package ai

import (
	"context"
)

// QueryInterpreter turns a free-text campus query into catalog search terms.
// Implementations can be swapped (Gemini today) without touching callers.
type QueryInterpreter interface {
	// InterpretQuery returns keywords likely to appear in location names or
	// descriptions, plus at most one category drawn from categories.
	InterpretQuery(ctx context.Context, query string, categories []string) (*Interpretation, error)
}
