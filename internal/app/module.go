package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/ecclesia/internal/membership"
	"github.com/shandysiswandi/ecclesia/internal/notification"
	"github.com/shandysiswandi/ecclesia/internal/verification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.verification.enabled") {
		if err := verification.New(verification.Dependency{
			Ctx:        a.ctx,
			CacheConn:  a.cacheConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Mail:       a.mail,
			Config:     a.config,
			Instrument: a.ins,
			Validator:  a.validator,
			HMAC:       a.hmac,
			Ticket:     a.ticketJWT,
			Clock:      a.clock,
		}); err != nil {
			slog.Error("failed to init module verification", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.membership.enabled") {
		if err := membership.New(membership.Dependency{
			DBConn:      a.dbConn,
			Router:      a.router,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Instrument:  a.ins,
			Validator:   a.validator,
			Password:    a.password,
			UID:         a.uid,
			Ticket:      a.ticketJWT,
			Access:      a.accessJWT,
			Clock:       a.clock,
		}); err != nil {
			slog.Error("failed to init module membership", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Mail:       a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
