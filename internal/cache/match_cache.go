package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/model"
)

// MatchCache keeps recently looked-up match records in Redis so the store
// adapter does not hit MongoDB on every connection event.
type MatchCache interface {
	Set(ctx context.Context, match *model.Match) error
	Get(ctx context.Context, code string) (*model.Match, error)
	Delete(ctx context.Context, code string) error
}

type matchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchCache creates a new match cache.
func NewMatchCache(client *redis.Client) MatchCache {
	return &matchCache{
		client: client,
		ttl:    24 * time.Hour, // matches expire after 24h
	}
}

func (c *matchCache) key(code string) string {
	return fmt.Sprintf("match:%s", code)
}

func (c *matchCache) Set(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(match.GameCode), data, c.ttl).Err()
}

func (c *matchCache) Get(ctx context.Context, code string) (*model.Match, error) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var match model.Match
	if err := json.Unmarshal([]byte(data), &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (c *matchCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
