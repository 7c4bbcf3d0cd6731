package membership

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/ecclesia/internal/membership/inbound"
	"github.com/shandysiswandi/ecclesia/internal/membership/outbound/db"
	"github.com/shandysiswandi/ecclesia/internal/membership/outbound/mq"
	"github.com/shandysiswandi/ecclesia/internal/membership/usecase"
	"github.com/shandysiswandi/ecclesia/internal/pkg/clock"
	"github.com/shandysiswandi/ecclesia/internal/pkg/hash"
	"github.com/shandysiswandi/ecclesia/internal/pkg/idempotency"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
	"github.com/shandysiswandi/ecclesia/internal/pkg/messaging"
	"github.com/shandysiswandi/ecclesia/internal/pkg/router"
	"github.com/shandysiswandi/ecclesia/internal/pkg/uid"
	"github.com/shandysiswandi/ecclesia/internal/pkg/validator"
)

type Dependency struct {
	DBConn    *pgxpool.Pool       `validate:"required"`
	Router    *router.Router      `validate:"required"`
	Messaging messaging.Publisher `validate:"required"`
	// Idempotency is optional; without it tickets are only bounded by their TTL.
	Idempotency idempotency.Idempotency
	Instrument  instrument.Instrumentation `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	Password    hash.Hash                  `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	Ticket      jwt.JWT                    `validate:"required"`
	Access      jwt.JWT                    `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Password:      dep.Password,
		UID:           dep.UID,
		Ticket:        dep.Ticket,
		Access:        dep.Access,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
