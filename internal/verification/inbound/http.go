package inbound

import (
	"context"

	"github.com/shandysiswandi/ecclesia/internal/pkg/router"
	"github.com/shandysiswandi/ecclesia/internal/verification/usecase"
)

type uc interface {
	RequestOTP(ctx context.Context, in usecase.RequestOTPInput) (*usecase.RequestOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
}

// RegisterHTTPEndpoint mounts the OTP routes. mws run after the router's own
// middleware, typically a per-client rate limit.
func RegisterHTTPEndpoint(r *router.Router, uc uc, mws ...router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/verification/otp", end.RequestOTP, mws...)
	r.POST("/api/v1/verification/otp/verify", end.VerifyOTP, mws...)
}
