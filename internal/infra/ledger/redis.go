package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

const (
	committedKeyPrefix = "dispatch:committed:"

	// Long enough to cover queue retries of the same task; delivery
	// correctness does not depend on the ledger surviving beyond that.
	committedTTL = 2 * time.Hour
)

type committedRecord struct {
	TaskKey     string    `json:"task_key"`
	CommittedAt time.Time `json:"committed_at"`
}

type redisLedger struct {
	client *redis.Client
}

// NewRedisLedger returns a DispatchLedger backed by redis. Entries expire
// after a couple of hours; the ledger is a best-effort deduplication aid,
// not the source of truth.
func NewRedisLedger(client *redis.Client) domain.DispatchLedger {
	return &redisLedger{
		client: client,
	}
}

func (l *redisLedger) IsCommitted(ctx context.Context, taskKey string) (bool, error) {
	key := committedKeyPrefix + taskKey

	exists, err := l.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return exists > 0, nil
}

func (l *redisLedger) Commit(ctx context.Context, taskKey string, committedAt time.Time) error {
	key := committedKeyPrefix + taskKey

	data, err := json.Marshal(committedRecord{
		TaskKey:     taskKey,
		CommittedAt: committedAt,
	})
	if err != nil {
		return err
	}

	return l.client.Set(ctx, key, data, committedTTL).Err()
}
