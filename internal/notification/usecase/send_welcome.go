package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shandysiswandi/ecclesia/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type SendWelcomeInput struct {
	MemberID  int64  `json:"member_id" validate:"required,gt=0"`
	Email     string `json:"email" validate:"required,emailaddr"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// SendWelcome mails the welcome letter to a newly registered member.
//
// Payloads that can never succeed (invalid input, mailer without credentials)
// are logged and dropped; only delivery failures are returned so the broker
// can redeliver.
func (s *Usecase) SendWelcome(ctx context.Context, in SendWelcomeInput) error {
	ctx, span := s.startSpan(ctx, "SendWelcome")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	span.SetAttributes(attribute.String("member.id", strconv.FormatInt(in.MemberID, 10)))

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "welcome email skipped, invalid payload", "member_id", in.MemberID, "error", err)
		return nil
	}

	if !s.repoMail.Configured() {
		slog.WarnContext(ctx, "welcome email skipped, mailer is not configured", "member_id", in.MemberID)
		return nil
	}

	church := s.setting("app.church.name", defaultChurchName)
	html, text, err := renderWelcomeEmail(welcomeEmailData{
		Church:    church,
		Address:   s.setting("app.church.address", defaultChurchAddress),
		FirstName: cases.Title(language.English).String(in.FirstName),
		Email:     in.Email,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render welcome email", "member_id", in.MemberID, "error", err)
		return nil
	}

	id, err := s.repoMail.Send(ctx, mail.Message{
		To:       []mail.Address{{Email: in.Email, Name: strings.TrimSpace(in.FirstName + " " + in.LastName)}},
		Subject:  welcomeSubjectPrefix + church,
		HTMLBody: html,
		TextBody: text,
		Tags:     []string{"welcome", "registration"},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to send welcome email", "member_id", in.MemberID, "error", err)
		return err
	}

	if s.sent != nil {
		s.sent.Add(ctx, 1)
	}
	slog.InfoContext(ctx, "welcome email sent", "member_id", in.MemberID, "message_id", id)

	return nil
}
