package inbound

import (
	"github.com/shandysiswandi/ecclesia/internal/membership/usecase"
	"github.com/shandysiswandi/ecclesia/internal/pkg/router"
)

// HTTPEndpoint exposes registration, login and profile handlers.
type HTTPEndpoint struct {
	uc uc
}

// Register completes sign-up with the ticket returned by OTP verification.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		RegistrationToken: req.RegistrationToken,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Password:          req.Password,
		ConfirmPassword:   req.ConfirmPassword,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{
		Message: "Account created successfully",
		Member:  toMemberResponse(resp.Member),
	}, nil
}

func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{AccessToken: resp.AccessToken}, nil
}

func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{Member: toMemberResponse(resp.Member)}, nil
}
