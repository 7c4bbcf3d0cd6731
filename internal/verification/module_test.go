package verification

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/ecclesia/internal/pkg/clock"
	"github.com/shandysiswandi/ecclesia/internal/pkg/config"
	"github.com/shandysiswandi/ecclesia/internal/pkg/goroutine"
	"github.com/shandysiswandi/ecclesia/internal/pkg/hash"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
	"github.com/shandysiswandi/ecclesia/internal/pkg/mail"
	"github.com/shandysiswandi/ecclesia/internal/pkg/router"
	"github.com/shandysiswandi/ecclesia/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type inbox struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (*inbox) Configured() bool { return true }
func (*inbox) Close() error     { return nil }

func (i *inbox) Send(_ context.Context, msg mail.Message) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sent = append(i.sent, msg)
	return "<id@test>", nil
}

func newModule(t *testing.T, yaml string) (http.Handler, *inbox) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	ticket, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("t", 64)),
		Issuer:    "ecclesia",
		Audiences: []string{"registration"},
		TTL:       15 * time.Minute,
		Clock:     clock.New(),
		UUID:      fixedID("jti"),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	routine := goroutine.NewManager(4)
	t.Cleanup(func() {
		cancel()
		_ = routine.Wait()
	})

	r := router.NewRouter(router.Config{Config: cfg, UUID: fixedID("cid")})
	box := &inbox{}

	require.NoError(t, New(Dependency{
		Ctx:        ctx,
		Goroutine:  routine,
		Router:     r,
		Mail:       box,
		Config:     cfg,
		Instrument: instrument.NewNoop(),
		Validator:  v,
		HMAC:       hash.NewHMACSHA256("pepper"),
		Ticket:     ticket,
		Clock:      clock.New(),
	}))

	return r, box
}

func call(t *testing.T, h http.Handler, path string, body any) (int, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw))))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestModule_IssueAndVerify(t *testing.T) {
	h, box := newModule(t, `
modules:
  verification:
    store: memory
    retention_seconds: 300
    expose_debug_hash: true
`)

	status, body := call(t, h, "/api/v1/verification/otp", map[string]string{
		"email": "jane@example.com", "firstName": "Jane", "lastName": "Doe",
	})
	require.Equal(t, http.StatusOK, status, body)
	require.Len(t, box.sent, 1)

	raw, err := base64.StdEncoding.DecodeString(body["otpHash"].(string))
	require.NoError(t, err)
	parts := strings.Split(string(raw), ":")
	require.Len(t, parts, 3)
	assert.Contains(t, box.sent[0].TextBody, parts[1])

	status, body = call(t, h, "/api/v1/verification/otp/verify", map[string]string{"email": "jane@example.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid OTP code. 2 attempts remaining.", body["error"])

	status, body = call(t, h, "/api/v1/verification/otp/verify", map[string]string{"email": "jane@example.com", "otp": parts[1]})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["verified"])
	assert.NotEmpty(t, body["registrationToken"])

	status, body = call(t, h, "/api/v1/verification/otp/verify", map[string]string{"email": "jane@example.com", "otp": parts[1]})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "OTP_NOT_FOUND", body["code"])
}

func TestModule_ClientRateLimit(t *testing.T) {
	h, _ := newModule(t, `
modules:
  verification:
    client_rate: "1-M"
`)

	status, _ := call(t, h, "/api/v1/verification/otp/verify", map[string]string{"email": "jane@example.com", "otp": "1"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := call(t, h, "/api/v1/verification/otp/verify", map[string]string{"email": "jane@example.com", "otp": "1"})
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", body["code"])
}

func TestModule_InvalidDependency(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	assert.Error(t, New(Dependency{Validator: v}))
}

func TestModule_UnknownStore(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("modules: {verification: {store: etcd}}"))
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	err = New(Dependency{
		Goroutine:  goroutine.NewManager(1),
		Router:     router.NewRouter(router.Config{Config: cfg, UUID: fixedID("cid")}),
		Mail:       &inbox{},
		Config:     cfg,
		Instrument: instrument.NewNoop(),
		Validator:  v,
		HMAC:       hash.NewHMACSHA256("pepper"),
		Ticket:     &jwt.Symmetric{},
		Clock:      clock.New(),
	})
	assert.ErrorContains(t, err, "unknown driver")
}
