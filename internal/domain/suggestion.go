package domain

import "context"

// SuggestionProvider is the opaque generative-text integration. apiKey is the
// caller's decrypted key and must not be persisted or logged.
type SuggestionProvider interface {
	Suggest(ctx context.Context, apiKey, prompt string) ([]string, error)
}
