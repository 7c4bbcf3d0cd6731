package inbound

import (
	"github.com/shandysiswandi/ecclesia/internal/pkg/router"
	"github.com/shandysiswandi/ecclesia/internal/verification/usecase"
)

// HTTPEndpoint exposes the email verification handlers.
type HTTPEndpoint struct {
	uc uc
}

// RequestOTP emails a six digit code to the address in the body.
func (h *HTTPEndpoint) RequestOTP(r *router.Request) (any, error) {
	var req RequestOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestOTP(r.Context(), usecase.RequestOTPInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, err
	}

	return RequestOTPResponse{
		Success:            true,
		Message:            resp.Message,
		ExpiresAt:          resp.ExpiresAt.UnixMilli(),
		OTPHash:            resp.OTPHash,
		ResendAfterSeconds: int(resp.ResendAfter.Seconds()),
	}, nil
}

// VerifyOTP exchanges a correct code for a registration token.
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Email: req.Email,
		Code:  req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{
		Message:           resp.Message,
		Verified:          true,
		RegistrationToken: resp.RegistrationToken,
	}, nil
}
