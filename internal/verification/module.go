package verification

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/ecclesia/internal/pkg/clock"
	"github.com/shandysiswandi/ecclesia/internal/pkg/config"
	"github.com/shandysiswandi/ecclesia/internal/pkg/goroutine"
	"github.com/shandysiswandi/ecclesia/internal/pkg/hash"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
	"github.com/shandysiswandi/ecclesia/internal/pkg/mail"
	"github.com/shandysiswandi/ecclesia/internal/pkg/ratelimit"
	"github.com/shandysiswandi/ecclesia/internal/pkg/router"
	"github.com/shandysiswandi/ecclesia/internal/pkg/validator"
	"github.com/shandysiswandi/ecclesia/internal/verification/inbound"
	"github.com/shandysiswandi/ecclesia/internal/verification/outbound/email"
	"github.com/shandysiswandi/ecclesia/internal/verification/outbound/store"
	"github.com/shandysiswandi/ecclesia/internal/verification/usecase"
)

const defaultSweepInterval = time.Minute

type Dependency struct {
	// Ctx bounds background jobs; without it the memory store is never swept.
	Ctx context.Context
	// CacheConn is required when the store or limiter driver is redis.
	CacheConn  *redis.Client
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Ticket     jwt.JWT                    `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	cfg := dep.Config

	repoStore, err := store.New(store.Config{
		Driver:    cfg.GetString("modules.verification.store"),
		Retention: cfg.GetSecond("modules.verification.retention_seconds"),
		Redis:     dep.CacheConn,
		Clock:     dep.Clock,
	})
	if err != nil {
		return err
	}

	issueLimiter, err := ratelimit.New(ratelimit.Config{
		Rate:   cfg.GetString("modules.verification.issue_rate"),
		Driver: cfg.GetString("ratelimit.driver"),
		Prefix: "verification_issue",
		Redis:  dep.CacheConn,
	})
	if err != nil {
		return err
	}

	clientLimiter, err := ratelimit.New(ratelimit.Config{
		Rate:   cfg.GetString("modules.verification.client_rate"),
		Driver: cfg.GetString("ratelimit.driver"),
		Prefix: "verification_client",
		Redis:  dep.CacheConn,
	})
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoStore:  repoStore,
		RepoMail:   email.New(dep.Mail, dep.Instrument),
		Limiter:    issueLimiter,
		Validator:  dep.Validator,
		Config:     cfg,
		HMAC:       dep.HMAC,
		Ticket:     dep.Ticket,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, router.RateLimit(clientLimiter))

	if mem, ok := repoStore.(*store.Memory); ok && dep.Ctx != nil {
		interval := cfg.GetSecond("modules.verification.sweep_seconds")
		if interval <= 0 {
			interval = defaultSweepInterval
		}
		dep.Goroutine.Go(dep.Ctx, func(ctx context.Context) error {
			sweep(ctx, mem, interval)
			return nil
		})
	}

	return nil
}

// sweep drops long-expired challenges until ctx is done.
func sweep(ctx context.Context, mem *store.Memory, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mem.Sweep(ctx); n > 0 {
				slog.DebugContext(ctx, "swept expired otp challenges", "removed", n)
			}
		}
	}
}
