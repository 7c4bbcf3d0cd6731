package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
)

const msgAuthRequired = "Authentication required"

type ProfileOutput struct {
	Member Member
}

func (s *Usecase) Profile(ctx context.Context) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.UserID == 0 {
		return nil, goerror.NewBusiness(msgAuthRequired, goerror.CodeUnauthorized)
	}

	member, err := s.repoDB.GetMemberByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "member account not found", "member_id", clm.UserID)
		return nil, goerror.NewBusiness(msgAuthRequired, goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member by id", "member_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ProfileOutput{Member: toMember(member)}, nil
}
