package ports

import "context"

// PromptCache keeps the most recent prompts a user has generated from.
// Best-effort: failures must not affect the generation flow.
type PromptCache interface {
	Record(ctx context.Context, userID, prompt string) error
	Recent(ctx context.Context, userID string) ([]string, error)
}
