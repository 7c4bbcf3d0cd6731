package inbound

import (
	"context"

	"github.com/shandysiswandi/ecclesia/internal/membership/usecase"
	"github.com/shandysiswandi/ecclesia/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Profile(ctx context.Context) (*usecase.ProfileOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, mws ...router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/members/register", end.Register, mws...)
	r.POST("/api/v1/members/login", end.Login, mws...)
	r.GET("/api/v1/members/me", end.Profile) // need authenticated
}
