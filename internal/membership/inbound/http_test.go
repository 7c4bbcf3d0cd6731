package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/ecclesia/internal/membership/usecase"
	"github.com/shandysiswandi/ecclesia/internal/pkg/clock"
	"github.com/shandysiswandi/ecclesia/internal/pkg/config"
	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
	"github.com/shandysiswandi/ecclesia/internal/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

var jane = usecase.Member{
	ID:              1893456789012345678,
	Email:           "jane@example.com",
	FirstName:       "Jane",
	LastName:        "Doe",
	Role:            "member",
	EmailVerifiedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
}

type fakeUsecase struct {
	gotRegister usecase.RegisterInput
	err         error
}

func (f *fakeUsecase) Register(_ context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	f.gotRegister = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.RegisterOutput{Member: jane}, nil
}

func (f *fakeUsecase) Login(_ context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.LoginOutput{AccessToken: "access-for-" + in.Email}, nil
}

func (f *fakeUsecase) Profile(ctx context.Context) (*usecase.ProfileOutput, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	m := jane
	m.ID = clm.UserID
	return &usecase.ProfileOutput{Member: m}, nil
}

func newServer(t *testing.T, uc uc) (http.Handler, *jwt.Symmetric) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app: {}"))
	require.NoError(t, err)

	access, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("a", 64)), Issuer: "ecclesia", Audiences: []string{"api"},
		TTL: time.Hour, Clock: clock.New(), UUID: fixedID("jti"),
	})
	require.NoError(t, err)

	r := router.NewRouter(router.Config{Config: cfg, UUID: fixedID("cid"), JWT: access})
	RegisterHTTPEndpoint(r, uc)
	return r, access
}

func do(h http.Handler, method, path, body, token string) (int, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestRegister(t *testing.T) {
	fake := &fakeUsecase{}
	h, _ := newServer(t, fake)

	status, body := do(h, http.MethodPost, "/api/v1/members/register",
		`{"registrationToken":"tkn","firstName":"Jane","lastName":"Doe","password":"Secret123!","confirmPassword":"Secret123!"}`, "")

	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, usecase.RegisterInput{
		RegistrationToken: "tkn", FirstName: "Jane", LastName: "Doe", Password: "Secret123!", ConfirmPassword: "Secret123!",
	}, fake.gotRegister)
	assert.Equal(t, "Account created successfully", body["message"])

	member, ok := body["member"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1893456789012345678", member["id"])
	assert.Equal(t, "member", member["role"])
	assert.Equal(t, "2026-03-01T09:00:00Z", member["emailVerifiedAt"])
}

func TestRegister_Conflict(t *testing.T) {
	h, _ := newServer(t, &fakeUsecase{err: goerror.NewBusiness("Email already registered", goerror.CodeConflict)})

	status, body := do(h, http.MethodPost, "/api/v1/members/register", `{"registrationToken":"tkn"}`, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, map[string]any{"error": "Email already registered", "code": "CONFLICT"}, body)
}

func TestLogin(t *testing.T) {
	h, _ := newServer(t, &fakeUsecase{})

	status, body := do(h, http.MethodPost, "/api/v1/members/login", `{"email":"jane@example.com","password":"x"}`, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"accessToken": "access-for-jane@example.com"}, body)
}

func TestProfile_RequiresBearer(t *testing.T) {
	h, access := newServer(t, &fakeUsecase{})

	status, body := do(h, http.MethodGet, "/api/v1/members/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication required", body["error"])

	status, body = do(h, http.MethodGet, "/api/v1/members/me", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token", body["error"])

	token, err := access.Generate(jwt.Subject{UserID: 77, Email: "jane@example.com", Role: "member"})
	require.NoError(t, err)

	status, body = do(h, http.MethodGet, "/api/v1/members/me", "", token)
	require.Equal(t, http.StatusOK, status)
	member, ok := body["member"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "77", member["id"])
}
