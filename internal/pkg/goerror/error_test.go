package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_StatusCodeAndKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
		msg    string
	}{
		{
			name:   "server hides the cause",
			err:    NewServer(errors.New("db down")),
			status: http.StatusInternalServerError,
			kind:   "INTERNAL_ERROR",
			msg:    "Internal server error",
		},
		{
			name:   "server with custom kind and message",
			err:    NewServer(errors.New("smtp"), WithMessage("Failed to send"), WithKind("DELIVERY_ERROR")),
			status: http.StatusInternalServerError,
			kind:   "DELIVERY_ERROR",
			msg:    "Failed to send",
		},
		{
			name:   "unavailable",
			err:    NewServer(nil, WithCode(CodeUnavailable)),
			status: http.StatusServiceUnavailable,
			kind:   "UNAVAILABLE",
			msg:    "Internal server error",
		},
		{
			name:   "business bad request",
			err:    NewBusiness("nope", CodeBadRequest),
			status: http.StatusBadRequest,
			kind:   "BAD_REQUEST",
			msg:    "nope",
		},
		{
			name:   "validation",
			err:    NewValidation("Invalid email format"),
			status: http.StatusBadRequest,
			kind:   "VALIDATION_ERROR",
			msg:    "Invalid email format",
		},
		{
			name:   "invalid format",
			err:    NewInvalidFormat(),
			status: http.StatusBadRequest,
			kind:   "VALIDATION_ERROR",
			msg:    "Invalid request body",
		},
		{
			name:   "rate limited",
			err:    NewBusiness("slow down", CodeTooManyRequest),
			status: http.StatusTooManyRequests,
			kind:   "RATE_LIMITED",
			msg:    "slow down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if !assert.ErrorAs(t, tt.err, &gerr) {
				return
			}
			assert.Equal(t, tt.status, gerr.StatusCode())
			assert.Equal(t, tt.kind, gerr.Kind())
			assert.Equal(t, tt.msg, gerr.Msg())
		})
	}
}

func TestError_Details(t *testing.T) {
	err := NewBusiness("Invalid OTP code. 1 attempts remaining.", CodeBadRequest,
		WithKind("OTP_MISMATCH"), WithDetail("remainingAttempts", 1))

	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, map[string]any{"remainingAttempts": 1}, gerr.Details())
	assert.Equal(t, "Invalid OTP code. 1 attempts remaining.", gerr.Error())
}

func TestNewInvalidInput(t *testing.T) {
	err := NewInvalidInput(nil, "email", "is required")

	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, map[string]string{"email": "is required"}, gerr.Fields())
	assert.Equal(t, CodeInvalidInput, gerr.Code())

	err = NewInvalidInput(nil, "odd")
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, CodeInvalidFormat, gerr.Code())

	cause := errors.New("boom")
	err = NewInvalidInput(cause)
	assert.ErrorIs(t, err, cause)
}
