package inbound

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/ecclesia/internal/notification/usecase"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type recorderUC struct {
	err   error
	calls []usecase.SendWelcomeInput
	cIDs  []string
}

func (r *recorderUC) SendWelcome(ctx context.Context, in usecase.SendWelcomeInput) error {
	r.calls = append(r.calls, in)
	r.cIDs = append(r.cIDs, instrument.GetCorrelationID(ctx))
	return r.err
}

type stubMessage struct {
	body    []byte
	headers map[string]string
}

func (m stubMessage) Body() []byte               { return m.body }
func (m stubMessage) Key() []byte                { return nil }
func (m stubMessage) Header(key string) string   { return m.headers[key] }
func (m stubMessage) ID() string                 { return "1" }
func (m stubMessage) Topic() string              { return "member_registered" }
func (m stubMessage) Timestamp() time.Time       { return time.Time{} }
func (m stubMessage) Ack(context.Context) error  { return nil }
func (m stubMessage) Nack(context.Context) error { return nil }

func TestMemberRegisteredNotification(t *testing.T) {
	t.Run("decodes payload and keeps correlation id", func(t *testing.T) {
		uc := &recorderUC{}
		h := &MQHandler{uc: uc, uuid: fixedID("generated"), ins: instrument.NewNoop()}

		err := h.MemberRegisteredNotification(context.Background(), stubMessage{
			body:    []byte(`{"member_id":"1001","email":"maria@example.com","first_name":"Maria","last_name":"Goretti"}`),
			headers: map[string]string{"cID": "req-42"},
		})
		require.NoError(t, err)

		require.Len(t, uc.calls, 1)
		assert.Equal(t, usecase.SendWelcomeInput{
			MemberID:  1001,
			Email:     "maria@example.com",
			FirstName: "Maria",
			LastName:  "Goretti",
		}, uc.calls[0])
		assert.Equal(t, []string{"req-42"}, uc.cIDs)
	})

	t.Run("generates correlation id when header is missing", func(t *testing.T) {
		uc := &recorderUC{}
		h := &MQHandler{uc: uc, uuid: fixedID("generated"), ins: instrument.NewNoop()}

		require.NoError(t, h.MemberRegisteredNotification(context.Background(), stubMessage{
			body: []byte(`{"member_id":"7","email":"a@b.co","first_name":"Al"}`),
		}))
		assert.Equal(t, []string{"generated"}, uc.cIDs)
	})

	t.Run("malformed body is acked", func(t *testing.T) {
		uc := &recorderUC{}
		h := &MQHandler{uc: uc, uuid: fixedID("x"), ins: instrument.NewNoop()}

		assert.NoError(t, h.MemberRegisteredNotification(context.Background(), stubMessage{body: []byte(`{not json`)}))
		assert.Empty(t, uc.calls)
	})

	t.Run("usecase error is returned", func(t *testing.T) {
		errMail := errors.New("mail down")
		uc := &recorderUC{err: errMail}
		h := &MQHandler{uc: uc, uuid: fixedID("x"), ins: instrument.NewNoop()}

		err := h.MemberRegisteredNotification(context.Background(), stubMessage{
			body: []byte(`{"member_id":"7","email":"a@b.co","first_name":"Al"}`),
		})
		assert.ErrorIs(t, err, errMail)
	})
}
