// Package ratelimit builds fixed-window limiters backed by memory or Redis.
package ratelimit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	// DriverMemory keeps counters in process.
	DriverMemory = "memory"
	// DriverRedis shares counters across instances.
	DriverRedis = "redis"
)

// ErrRedisRequired is returned when the redis driver is chosen without a client.
var ErrRedisRequired = errors.New("ratelimit: redis client is required")

// Config describes one limiter.
type Config struct {
	// Rate uses the "<limit>-<period>" format, e.g. "5-M" or "100-H".
	// An empty rate disables the limiter.
	Rate   string
	Driver string
	Prefix string
	Redis  *redis.Client
}

// New returns nil, nil when cfg.Rate is empty.
func New(cfg Config) (*limiter.Limiter, error) {
	if strings.TrimSpace(cfg.Rate) == "" {
		return nil, nil
	}

	rate, err := limiter.NewRateFromFormatted(strings.TrimSpace(cfg.Rate))
	if err != nil {
		return nil, fmt.Errorf("ratelimit: parse rate %q: %w", cfg.Rate, err)
	}

	opts := limiter.StoreOptions{Prefix: cfg.Prefix, CleanUpInterval: limiter.DefaultCleanUpInterval}
	if opts.Prefix == "" {
		opts.Prefix = limiter.DefaultPrefix
	}

	var store limiter.Store
	switch strings.ToLower(cfg.Driver) {
	case "", DriverMemory:
		store = memory.NewStoreWithOptions(opts)
	case DriverRedis:
		if cfg.Redis == nil {
			return nil, ErrRedisRequired
		}
		store, err = sredis.NewStoreWithOptions(cfg.Redis, opts)
		if err != nil {
			return nil, fmt.Errorf("ratelimit: redis store: %w", err)
		}
	default:
		return nil, fmt.Errorf("ratelimit: unknown driver %q", cfg.Driver)
	}

	return limiter.New(store, rate), nil
}
