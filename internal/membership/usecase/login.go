package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
)

const msgInvalidCredential = "Invalid email or password"

type LoginInput struct {
	Email    string `validate:"required,emailaddr"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	AccessToken string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, invalidInput(err)
	}

	cred, err := s.repoDB.GetMemberCredential(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "member account not found", "email", in.Email)
		return nil, goerror.NewBusiness(msgInvalidCredential, goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member credential", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.password.Verify(cred.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "password member account not match", "member_id", cred.ID)
		return nil, goerror.NewBusiness(msgInvalidCredential, goerror.CodeUnauthorized)
	}

	token, err := s.access.Generate(jwt.Subject{UserID: cred.ID, Email: cred.Email, Role: cred.Role.String()})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "member_id", cred.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{AccessToken: token}, nil
}
