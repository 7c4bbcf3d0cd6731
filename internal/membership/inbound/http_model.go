package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/ecclesia/internal/membership/usecase"
)

type RegisterRequest struct {
	RegistrationToken string `json:"registrationToken"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Password          string `json:"password"`
	ConfirmPassword   string `json:"confirmPassword"`
}

type MemberResponse struct {
	ID              int64     `json:"id,string"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Role            string    `json:"role"`
	EmailVerifiedAt time.Time `json:"emailVerifiedAt"`
}

type RegisterResponse struct {
	Message string         `json:"message"`
	Member  MemberResponse `json:"member"`
}

func (RegisterResponse) StatusCode() int { return http.StatusCreated }

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type ProfileResponse struct {
	Member MemberResponse `json:"member"`
}

func toMemberResponse(m usecase.Member) MemberResponse {
	return MemberResponse{
		ID:              m.ID,
		Email:           m.Email,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Role:            m.Role,
		EmailVerifiedAt: m.EmailVerifiedAt,
	}
}
