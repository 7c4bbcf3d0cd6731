package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/ecclesia/internal/membership/entity"
	"github.com/shandysiswandi/ecclesia/internal/pkg/clock"
	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/hash"
	"github.com/shandysiswandi/ecclesia/internal/pkg/idempotency"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
	"github.com/shandysiswandi/ecclesia/internal/pkg/uid"
	"github.com/shandysiswandi/ecclesia/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type MemberRegisteredEvent struct {
	MemberID  int64
	Email     string
	FirstName string
	LastName  string
}

type repoMessaging interface {
	PublishMemberRegistered(ctx context.Context, msg MemberRegisteredEvent) error
}

type repoDB interface {
	CreateMember(ctx context.Context, in entity.NewMember) error
	GetMemberCredential(ctx context.Context, email string) (*entity.MemberCredential, error)
	GetMemberByID(ctx context.Context, id int64) (*entity.Member, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	password      hash.Hash
	uid           uid.NumberID
	ticket        jwt.JWT
	access        jwt.JWT
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	// Idempotency makes registration tickets single-use; nil trusts the ticket TTL alone.
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Password    hash.Hash
	UID         uid.NumberID
	// Ticket verifies registration tickets minted by the verification module.
	Ticket     jwt.JWT
	Access     jwt.JWT
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	uc := &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		password:      dep.Password,
		uid:           dep.UID,
		ticket:        dep.Ticket,
		access:        dep.Access,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}

	if st, ok := dep.Idempotency.(*idempotency.StateTracker); ok && st == nil {
		uc.idemp = nil
	}
	if uc.clock == nil {
		uc.clock = clock.New()
	}
	if uc.ins == nil {
		uc.ins = instrument.NewNoop()
	}

	return uc
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("membership.usecase").Start(ctx, name)
}

// invalidInput keeps the per-field messages so clients can point at the field.
func invalidInput(err error) error {
	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		return goerror.NewValidation("Validation error", goerror.WithFields(ve.Values()))
	}

	slog.Error("failed to validate input", "error", err)
	return goerror.NewServer(err)
}

func toMember(m *entity.Member) Member {
	return Member{
		ID:              m.ID,
		Email:           m.Email,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Role:            m.Role.String(),
		EmailVerifiedAt: m.EmailVerifiedAt,
	}
}
