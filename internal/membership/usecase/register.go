package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/ecclesia/internal/membership/entity"
	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/idempotency"
)

const (
	msgInvalidTicket     = "Invalid or expired registration token"
	msgTicketUsed        = "Registration token has already been used"
	msgEmailRegistered   = "Email already registered"
	ticketStateRetention = time.Minute
)

type RegisterInput struct {
	RegistrationToken string `validate:"required"`
	FirstName         string `validate:"required,minrunes=2,max=100"`
	LastName          string `validate:"max=100"`
	Password          string `validate:"required,password"`
	ConfirmPassword   string `validate:"omitempty,eqfield=Password"`
}

type RegisterOutput struct {
	Member Member
}

// Register turns a verified email, proven by a registration ticket, into a member.
// A ticket can complete at most one registration.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.RegistrationToken = strings.TrimSpace(in.RegistrationToken)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := s.validator.Validate(in); err != nil {
		return nil, invalidInput(err)
	}

	claims, err := s.ticket.Verify(in.RegistrationToken)
	if err != nil {
		slog.WarnContext(ctx, "registration ticket rejected", "error", err)
		return nil, goerror.NewBusiness(msgInvalidTicket, goerror.CodeUnauthorized)
	}

	email := strings.ToLower(strings.TrimSpace(claims.UserEmail))
	if email == "" || claims.ID == "" {
		slog.WarnContext(ctx, "registration ticket missing email or jti")
		return nil, goerror.NewBusiness(msgInvalidTicket, goerror.CodeUnauthorized)
	}

	hashedPassword, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	verifiedAt := now
	if claims.IssuedAt != nil {
		verifiedAt = claims.IssuedAt.UTC()
	}

	newMember := entity.NewMember{
		ID:              s.uid.Generate(),
		Email:           email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		PasswordHash:    string(hashedPassword),
		Role:            entity.RoleMember,
		EmailVerifiedAt: verifiedAt,
	}

	create := func(ctx context.Context) error {
		return s.repoDB.CreateMember(ctx, newMember)
	}

	if s.idemp != nil {
		// the completed marker only has to outlive the ticket itself
		stateTTL := ticketStateRetention
		if claims.ExpiresAt != nil {
			stateTTL += claims.ExpiresAt.Sub(now)
		}
		err = s.idemp.Exec(ctx, "membership:register:"+claims.ID, create, idempotency.WithStateTTL(stateTTL))
	} else {
		err = create(ctx)
	}

	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.WarnContext(ctx, "registration ticket replayed", "email", email, "jti", claims.ID)
		return nil, goerror.NewBusiness(msgTicketUsed, goerror.CodeUnauthorized)
	case errors.Is(err, goerror.ErrConflict):
		slog.WarnContext(ctx, "email already registered", "email", email)
		return nil, goerror.NewBusiness(msgEmailRegistered, goerror.CodeConflict)
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo create member", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishMemberRegistered(ctx, MemberRegisteredEvent{
		MemberID:  newMember.ID,
		Email:     newMember.Email,
		FirstName: newMember.FirstName,
		LastName:  newMember.LastName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish member registered", "member_id", newMember.ID, "error", err)
	}

	slog.InfoContext(ctx, "member registered", "member_id", newMember.ID, "email", email)

	return &RegisterOutput{Member: toMember(&entity.Member{
		ID:              newMember.ID,
		Email:           newMember.Email,
		FirstName:       newMember.FirstName,
		LastName:        newMember.LastName,
		Role:            newMember.Role,
		EmailVerifiedAt: newMember.EmailVerifiedAt,
		CreatedAt:       now,
	})}, nil
}
