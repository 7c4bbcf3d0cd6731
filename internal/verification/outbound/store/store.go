// Package store keeps pending OTP challenges keyed by normalized email.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/ecclesia/internal/pkg/clock"
	"github.com/shandysiswandi/ecclesia/internal/verification/entity"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// MutateFunc inspects the current record, nil when none exists. It may run more
// than once per Mutate call (optimistic retries), so it must not keep state
// across calls other than overwriting its outputs.
type MutateFunc = func(c *entity.Challenge) entity.Decision

// Store is the challenge repository. Mutate runs fn atomically with respect to
// any other Mutate, Set or Delete on the same email.
type Store interface {
	// Get returns nil, nil when no record exists.
	Get(ctx context.Context, email string) (*entity.Challenge, error)
	Set(ctx context.Context, c entity.Challenge) error
	Delete(ctx context.Context, email string) error
	Mutate(ctx context.Context, email string, fn MutateFunc) error
}

// Config selects and tunes the driver.
type Config struct {
	Driver string
	// Retention keeps expired records around long enough to report them as
	// expired rather than missing.
	Retention time.Duration
	Redis     *redis.Client
	Clock     clock.Clocker
}

// ErrRedisRequired is returned when the redis driver is selected without a client.
var ErrRedisRequired = errors.New("store: redis client is required")

// New builds the store named by cfg.Driver. An empty driver means memory.
func New(cfg Config) (Store, error) {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemory(cfg.Clock, cfg.Retention), nil
	case DriverRedis:
		if cfg.Redis == nil {
			return nil, ErrRedisRequired
		}
		return NewRedis(cfg.Redis, cfg.Clock, cfg.Retention), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
