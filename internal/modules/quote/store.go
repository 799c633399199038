// README: Quote cache backed by Redis (JSON values with TTL).
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tuma/internal/types"
)

const quoteKeyPrefix = "quote:%s"

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redis *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: redis, ttl: ttl}
}

func (s *Store) Save(ctx context.Context, q Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	return s.redis.Set(ctx, quoteKey(q.ID), payload, s.ttl).Err()
}

func (s *Store) Get(ctx context.Context, id types.ID) (Quote, error) {
	payload, err := s.redis.Get(ctx, quoteKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Quote{}, ErrNotFound
	}
	if err != nil {
		return Quote{}, err
	}
	var q Quote
	if err := json.Unmarshal(payload, &q); err != nil {
		return Quote{}, fmt.Errorf("unmarshal quote: %w", err)
	}
	return q, nil
}

func quoteKey(id types.ID) string {
	return fmt.Sprintf(quoteKeyPrefix, string(id))
}
