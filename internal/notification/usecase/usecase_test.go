package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shandysiswandi/ecclesia/internal/pkg/config"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/mail"
	"github.com/shandysiswandi/ecclesia/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMail struct {
	mu         sync.Mutex
	configured bool
	err        error
	sent       []mail.Message
}

func (f *fakeMail) Configured() bool { return f.configured }

func (f *fakeMail) Send(_ context.Context, msg mail.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "<welcome@test>", nil
}

func newUsecase(t *testing.T, cfgYAML string, m *fakeMail) *Usecase {
	t.Helper()

	if cfgYAML == "" {
		cfgYAML = "app: {}"
	}
	cfg, err := config.NewViperFromBytes("yaml", []byte(cfgYAML))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	return New(Dependency{
		RepoMail:   m,
		Validator:  v,
		Config:     cfg,
		Instrument: instrument.NewNoop(),
	})
}

func validInput() SendWelcomeInput {
	return SendWelcomeInput{
		MemberID:  1001,
		Email:     "  Maria@Example.COM ",
		FirstName: "maria",
		LastName:  "Goretti",
	}
}

func TestSendWelcome(t *testing.T) {
	m := &fakeMail{configured: true}
	uc := newUsecase(t, "", m)

	require.NoError(t, uc.SendWelcome(context.Background(), validInput()))

	require.Len(t, m.sent, 1)
	msg := m.sent[0]
	assert.Equal(t, []mail.Address{{Email: "maria@example.com", Name: "maria Goretti"}}, msg.To)
	assert.Equal(t, "Welcome to "+defaultChurchName, msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Welcome, Maria!")
	assert.Contains(t, msg.TextBody, "maria@example.com")
	assert.Contains(t, msg.TextBody, defaultChurchAddress)
	assert.Equal(t, []string{"welcome", "registration"}, msg.Tags)
}

func TestSendWelcome_Concurrent(t *testing.T) {
	m := &fakeMail{configured: true}
	uc := newUsecase(t, "", m)

	const workers = 8
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := validInput()
			in.FirstName = "mary ann"
			assert.NoError(t, uc.SendWelcome(context.Background(), in))
		}()
	}
	wg.Wait()

	require.Len(t, m.sent, workers)
	for _, msg := range m.sent {
		assert.Contains(t, msg.HTMLBody, "Welcome, Mary Ann!")
	}
}

func TestSendWelcome_ChurchFromConfig(t *testing.T) {
	m := &fakeMail{configured: true}
	uc := newUsecase(t, "app:\n  church:\n    name: St. Joseph Parish\n    address: 1 Parish Road\n", m)

	require.NoError(t, uc.SendWelcome(context.Background(), validInput()))

	require.Len(t, m.sent, 1)
	assert.Equal(t, "Welcome to St. Joseph Parish", m.sent[0].Subject)
	assert.Contains(t, m.sent[0].HTMLBody, "1 Parish Road")
}

func TestSendWelcome_DropsUnusablePayloads(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(in *SendWelcomeInput)
		configured bool
	}{
		{name: "missing member id", mutate: func(in *SendWelcomeInput) { in.MemberID = 0 }, configured: true},
		{name: "invalid email", mutate: func(in *SendWelcomeInput) { in.Email = "not-an-email" }, configured: true},
		{name: "blank first name", mutate: func(in *SendWelcomeInput) { in.FirstName = "   " }, configured: true},
		{name: "mailer not configured", mutate: func(*SendWelcomeInput) {}, configured: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMail{configured: tt.configured}
			uc := newUsecase(t, "", m)

			in := validInput()
			tt.mutate(&in)

			assert.NoError(t, uc.SendWelcome(context.Background(), in))
			assert.Empty(t, m.sent)
		})
	}
}

func TestSendWelcome_DeliveryFailure(t *testing.T) {
	errSMTP := errors.New("smtp: 421 try again later")
	m := &fakeMail{configured: true, err: errSMTP}
	uc := newUsecase(t, "", m)

	err := uc.SendWelcome(context.Background(), validInput())
	assert.ErrorIs(t, err, errSMTP)
}

func TestRenderWelcomeEmail_EscapesHTML(t *testing.T) {
	html, text, err := renderWelcomeEmail(welcomeEmailData{
		Church:    "St. Mary",
		Address:   "Main St",
		FirstName: "<b>Ann</b>",
		Email:     "ann@example.com",
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<b>Ann</b>")
	assert.Contains(t, html, "&lt;b&gt;Ann&lt;/b&gt;")
	assert.Contains(t, text, "<b>Ann</b>")
}
