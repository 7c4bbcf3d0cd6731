package email

import (
	"context"

	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) Configured() bool {
	return m.client.Configured()
}

func (m *Mail) Send(ctx context.Context, msg mail.Message) (string, error) {
	ctx, span := m.ins.Tracer("verification.outbound.email").Start(ctx, "Send")
	defer span.End()

	id, err := m.client.Send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.String("mail.message_id", id))
	return id, nil
}
