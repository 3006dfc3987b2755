package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	promptCacheSize = 20
	promptCacheTTL  = 7 * 24 * time.Hour
)

// PromptCache keeps each user's most recent generation prompts.
// Key format: prompts:<user_id>, newest first, capped at promptCacheSize.
type PromptCache struct {
	client *redis.Client
}

// NewPromptCache creates a PromptCache wrapping the given Redis client.
func NewPromptCache(client *redis.Client) *PromptCache {
	return &PromptCache{client: client}
}

// Record pushes the prompt to the front of the user's list, dropping any
// older occurrence of the same prompt, and refreshes the TTL.
func (p *PromptCache) Record(ctx context.Context, userID, prompt string) error {
	key := p.key(userID)

	pipe := p.client.TxPipeline()
	pipe.LRem(ctx, key, 0, prompt)
	pipe.LPush(ctx, key, prompt)
	pipe.LTrim(ctx, key, 0, promptCacheSize-1)
	pipe.Expire(ctx, key, promptCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record prompt: %w", err)
	}
	return nil
}

// Recent returns the user's cached prompts, newest first.
func (p *PromptCache) Recent(ctx context.Context, userID string) ([]string, error) {
	prompts, err := p.client.LRange(ctx, p.key(userID), 0, promptCacheSize-1).Result()
	if err != nil {
		return nil, fmt.Errorf("recent prompts: %w", err)
	}
	return prompts, nil
}

func (p *PromptCache) key(userID string) string {
	return "prompts:" + userID
}
