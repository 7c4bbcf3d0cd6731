package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/ecclesia/internal/membership/usecase"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/messaging"
	"github.com/shandysiswandi/ecclesia/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishMemberRegistered(ctx context.Context, msg usecase.MemberRegisteredEvent) error {
	ctx, span := m.ins.Tracer("membership.outbound.mq").Start(ctx, "PublishMemberRegistered")
	defer span.End()

	body, err := json.Marshal(event.MemberRegisteredMessage{
		MemberID:  msg.MemberID,
		Email:     msg.Email,
		FirstName: msg.FirstName,
		LastName:  msg.LastName,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, event.MemberRegisteredDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(msg.Email),
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
