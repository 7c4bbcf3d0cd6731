package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/ecclesia/internal/pkg/clock"
	"github.com/shandysiswandi/ecclesia/internal/verification/entity"
)

const (
	keyPrefix       = "verification:otp:"
	maxWatchRetries = 8
)

// Redis stores each challenge as JSON with a TTL of its remaining lifetime
// plus the retention grace.
type Redis struct {
	client    *redis.Client
	clock     clock.Clocker
	retention time.Duration
}

func NewRedis(client *redis.Client, clk clock.Clocker, retention time.Duration) *Redis {
	return &Redis{client: client, clock: clk, retention: retention}
}

func key(email string) string {
	return keyPrefix + email
}

func (r *Redis) ttl(c entity.Challenge) time.Duration {
	// a TTL of zero would mean "no expiry"
	return max(c.ExpiresAt.Sub(r.clock.Now())+r.retention, time.Second)
}

func (r *Redis) Get(ctx context.Context, email string) (*entity.Challenge, error) {
	return r.get(ctx, r.client, email)
}

func (r *Redis) get(ctx context.Context, cmd redis.Cmdable, email string) (*entity.Challenge, error) {
	data, err := cmd.Get(ctx, key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: redis get: %w", err)
	}

	var c entity.Challenge
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("store: decode challenge: %w", err)
	}
	return &c, nil
}

func (r *Redis) Set(ctx context.Context, c entity.Challenge) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("store: encode challenge: %w", err)
	}

	if err := r.client.Set(ctx, key(c.Email), data, r.ttl(c)).Err(); err != nil {
		return fmt.Errorf("store: redis set: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("store: redis del: %w", err)
	}
	return nil
}

// Mutate uses optimistic locking: the transaction aborts when another writer
// touches the key between WATCH and EXEC, and the whole read-decide-write
// cycle is retried.
func (r *Redis) Mutate(ctx context.Context, email string, fn MutateFunc) error {
	backoff := retry.WithMaxRetries(maxWatchRetries, retry.WithJitter(5*time.Millisecond, retry.NewExponential(10*time.Millisecond)))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			current, err := r.get(ctx, tx, email)
			if err != nil {
				return err
			}

			decision := fn(current)
			if decision == entity.DecisionKeep || (decision == entity.DecisionSave && current == nil) {
				return nil
			}

			var data []byte
			if decision == entity.DecisionSave {
				if data, err = json.Marshal(current); err != nil {
					return fmt.Errorf("store: encode challenge: %w", err)
				}
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if decision == entity.DecisionDelete {
					pipe.Del(ctx, key(email))
				} else {
					pipe.Set(ctx, key(email), data, r.ttl(*current))
				}
				return nil
			})
			return err
		}, key(email))

		if errors.Is(err, redis.TxFailedErr) {
			return retry.RetryableError(err)
		}
		return err
	})
}
