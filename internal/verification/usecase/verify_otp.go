package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
	"github.com/shandysiswandi/ecclesia/internal/verification/entity"
)

type VerifyOTPInput struct {
	Email string
	Code  string
}

type VerifyOTPOutput struct {
	Message string
	// RegistrationToken is a short-lived ticket proving the email was verified.
	RegistrationToken string
}

// VerifyOTP checks code against the pending challenge. The checks run in a
// fixed order inside one atomic store step: missing, expired, exhausted,
// mismatch (counts an attempt), match (consumes the challenge).
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	email := normalizeEmail(in.Email)
	code := strings.TrimSpace(in.Code)
	if email == "" || code == "" {
		return nil, goerror.NewValidation(msgMissingVerify)
	}

	now := s.clock.Now()
	var (
		outcome   entity.Outcome
		remaining int
	)

	err := s.repoStore.Mutate(ctx, email, func(c *entity.Challenge) entity.Decision {
		outcome, remaining = entity.OutcomeNotFound, 0

		switch {
		case c == nil:
			return entity.DecisionKeep
		case c.Expired(now):
			outcome = entity.OutcomeExpired
			return entity.DecisionDelete
		case c.Exhausted():
			outcome = entity.OutcomeAttemptsExceeded
			return entity.DecisionDelete
		case !s.hmac.Verify(c.CodeHash, c.Salt+code):
			c.Attempts++
			outcome, remaining = entity.OutcomeMismatch, c.RemainingAttempts()
			return entity.DecisionSave
		default:
			outcome = entity.OutcomeVerified
			return entity.DecisionDelete
		}
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to check otp challenge", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if outcome != entity.OutcomeVerified {
		s.recordFailure(ctx, outcome)
		slog.WarnContext(ctx, "otp verification rejected", "email", email, "reason", outcome.String(), "remaining_attempts", remaining)
	}

	switch outcome {
	case entity.OutcomeNotFound:
		return nil, newBusiness(msgNotFound, kindNotFound)
	case entity.OutcomeExpired:
		return nil, newBusiness(msgExpired, kindExpired)
	case entity.OutcomeAttemptsExceeded:
		return nil, newBusiness(msgTooManyAttempts, kindAttemptsExceeded)
	case entity.OutcomeMismatch:
		return nil, newBusiness(fmt.Sprintf(msgMismatchTemplate, remaining), kindMismatch,
			goerror.WithDetail("remainingAttempts", remaining))
	}

	if s.verified != nil {
		s.verified.Add(ctx, 1)
	}

	token, err := s.ticket.Generate(jwt.Subject{Email: email})
	if err != nil {
		slog.ErrorContext(ctx, "failed to mint registration ticket", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "otp verified", "email", email)

	return &VerifyOTPOutput{Message: msgVerified, RegistrationToken: token}, nil
}
