package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"server/internal/domain"
)

const (
	statusKeyPrefix = "blog:gen:status:"
	stopKeyPrefix   = "blog:gen:stop:"

	// Stale guard: a crashed worker leaves records behind, and status is
	// only a hint that readers cross-check against the queue anyway.
	statusTTL = 24 * time.Hour
	stopTTL   = time.Hour
)

// RedisStore keeps live generation status and the cooperative stop flag in
// Redis so the API and worker processes share them.
type RedisStore struct {
	rdb *goredis.Client
}

func NewRedisStore(rdb *goredis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

var _ domain.StatusStore = (*RedisStore)(nil)

func (s *RedisStore) Get(ctx context.Context, userID string) (*domain.GenerationStatus, error) {
	raw, err := s.rdb.Get(ctx, statusKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get status: %w", err)
	}
	var st domain.GenerationStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &st, nil
}

func (s *RedisStore) Set(ctx context.Context, st domain.GenerationStatus) error {
	st.UpdatedAt = time.Now()
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	if err := s.rdb.Set(ctx, statusKeyPrefix+st.UserID, raw, statusTTL).Err(); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, statusKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("clear status: %w", err)
	}
	return nil
}

func (s *RedisStore) RequestStop(ctx context.Context, userID string) error {
	if err := s.rdb.Set(ctx, stopKeyPrefix+userID, "1", stopTTL).Err(); err != nil {
		return fmt.Errorf("request stop: %w", err)
	}
	return nil
}

func (s *RedisStore) StopRequested(ctx context.Context, userID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, stopKeyPrefix+userID).Result()
	if err != nil {
		return false, fmt.Errorf("check stop: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) ClearStop(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, stopKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("clear stop: %w", err)
	}
	return nil
}
