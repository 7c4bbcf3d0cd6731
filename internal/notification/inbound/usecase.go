package inbound

import (
	"context"

	"github.com/shandysiswandi/ecclesia/internal/notification/usecase"
)

type uc interface {
	SendWelcome(ctx context.Context, in usecase.SendWelcomeInput) error
}
