package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/mail"
	"github.com/shandysiswandi/ecclesia/internal/verification/entity"
)

type RequestOTPInput struct {
	Email     string `validate:"required,emailaddr"`
	FirstName string `validate:"required,minrunes=2"`
	LastName  string `validate:"max=100"`
}

type RequestOTPOutput struct {
	Message     string
	ExpiresAt   time.Time
	ResendAfter time.Duration
	// OTPHash is only set when modules.verification.expose_debug_hash is on.
	OTPHash string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestOTP emails a fresh code and replaces any pending challenge for the
// address. Nothing is stored unless the email was accepted by the provider.
func (s *Usecase) RequestOTP(ctx context.Context, in RequestOTPInput) (*RequestOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOTP")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := s.validator.Validate(in); err != nil {
		msg, fields, ok := validationMessage(err)
		if !ok {
			slog.ErrorContext(ctx, "failed to validate otp request", "error", err)
			return nil, goerror.NewServer(err)
		}
		return nil, goerror.NewValidation(msg, goerror.WithFields(fields))
	}

	if !s.repoMail.Configured() {
		slog.ErrorContext(ctx, "email provider is not configured")
		return nil, goerror.NewServer(mail.ErrNotConfigured,
			goerror.WithMessage(msgNotConfigured),
			goerror.WithKind(kindConfiguration),
			goerror.WithCode(goerror.CodeUnavailable),
		)
	}

	if s.limiter != nil {
		lctx, err := s.limiter.Get(ctx, in.Email)
		if err != nil {
			slog.WarnContext(ctx, "otp rate limiter unavailable", "email", in.Email, "error", err)
		} else if lctx.Reached {
			slog.WarnContext(ctx, "otp issuance rate limited", "email", in.Email)
			return nil, goerror.NewBusiness(msgRateLimited, goerror.CodeTooManyRequest)
		}
	}

	code := s.codes.Generate()
	now := s.clock.Now()

	salt, err := s.salt()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp salt", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.codeHash(salt, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	church := s.setting("app.church.name", defaultChurchName)
	html, text, err := renderOTPEmail(otpEmailData{
		Church:        church,
		Address:       s.setting("app.church.address", defaultChurchAddress),
		FirstName:     greetingName(in.FirstName),
		Code:          code,
		ExpiryMinutes: entity.ExpiryMinutes,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render otp email", "error", err)
		return nil, goerror.NewServer(err)
	}

	msgID, err := s.repoMail.Send(ctx, mail.Message{
		To:       []mail.Address{{Email: in.Email, Name: strings.TrimSpace(in.FirstName + " " + in.LastName)}},
		Subject:  otpSubjectPrefix + church,
		HTMLBody: html,
		TextBody: text,
		Tags:     []string{"otp", "registration"},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err, goerror.WithMessage(msgDeliveryFailed), goerror.WithKind(kindDelivery))
	}

	challenge := entity.Challenge{
		Email:     in.Email,
		CodeHash:  codeHash,
		Salt:      salt,
		ExpiresAt: now.Add(entity.ExpiryMinutes * time.Minute),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IssuedAt:  now,
	}

	// the code is already in the inbox, so a client hanging up must not lose it
	if err := s.repoStore.Set(context.WithoutCancel(ctx), challenge); err != nil {
		slog.ErrorContext(ctx, "failed to store otp challenge after delivery", "email", in.Email, "message_id", msgID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.issued != nil {
		s.issued.Add(ctx, 1)
	}
	slog.InfoContext(ctx, "otp issued", "email", in.Email, "message_id", msgID, "expires_at", challenge.ExpiresAt)

	out := &RequestOTPOutput{
		Message:     msgSent,
		ExpiresAt:   challenge.ExpiresAt,
		ResendAfter: entity.ResendAfterSeconds * time.Second,
	}
	if s.cfg != nil && s.cfg.GetBool("modules.verification.expose_debug_hash") {
		out.OTPHash = base64.StdEncoding.EncodeToString(fmt.Appendf(nil, "%s:%s:%d", in.Email, code, now.UnixMilli()))
	}

	return out, nil
}

func (s *Usecase) setting(key, fallback string) string {
	if s.cfg == nil {
		return fallback
	}
	if v := strings.TrimSpace(s.cfg.GetString(key)); v != "" {
		return v
	}
	return fallback
}
