package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/ecclesia/internal/pkg/config"
	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
	"github.com/shandysiswandi/ecclesia/internal/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type created struct {
	ID string `json:"id"`
}

func (created) StatusCode() int { return http.StatusCreated }

func newTestRouter(t *testing.T, verifier jwt.JWT) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
app:
  maintenance:
    endpoints: "/api/v1/closed"
instrument:
  log_mask_fields: "password,otp"
`))
	require.NoError(t, err)

	return NewRouter(Config{Config: cfg, UUID: fixedID("cid-1"), JWT: verifier})
}

func serve(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_ErrorBody(t *testing.T) {
	r := newTestRouter(t, nil)
	r.POST("/api/v1/verification/otp/verify", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("Invalid OTP code. 2 attempts remaining.", goerror.CodeBadRequest,
			goerror.WithKind("OTP_MISMATCH"), goerror.WithDetail("remainingAttempts", 2))
	})
	r.POST("/api/v1/verification/otp", func(*Request) (any, error) {
		return nil, goerror.NewServer(errors.New("smtp: 535"))
	})
	r.POST("/api/v1/members/login", func(*Request) (any, error) {
		return nil, errors.New("plain")
	})

	rec := serve(r, http.MethodPost, "/api/v1/verification/otp/verify", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid OTP code. 2 attempts remaining.","code":"OTP_MISMATCH","remainingAttempts":2}`, rec.Body.String())
	assert.Equal(t, "cid-1", rec.Header().Get(HeaderCorrelationID))

	rec = serve(r, http.MethodPost, "/api/v1/verification/otp", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error","code":"INTERNAL_ERROR"}`, rec.Body.String())

	rec = serve(r, http.MethodPost, "/api/v1/members/login", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_SuccessBody(t *testing.T) {
	r := newTestRouter(t, nil)
	r.POST("/api/v1/members/register", func(*Request) (any, error) { return created{ID: "42"}, nil })
	r.GET("/health", func(*Request) (any, error) { return map[string]string{"status": "ok"}, nil })

	rec := serve(r, http.MethodPost, "/api/v1/members/register", `{}`, HeaderRequestID, "from-proxy")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"42"}`, rec.Body.String())
	assert.Equal(t, "from-proxy", rec.Header().Get(HeaderCorrelationID))

	rec = serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Endpoint not found","code":"NOT_FOUND"}`, rec.Body.String())
}

func TestRouter_Maintenance(t *testing.T) {
	r := newTestRouter(t, nil)
	r.GET("/api/v1/closed", func(*Request) (any, error) { return map[string]string{}, nil })

	rec := serve(r, http.MethodGet, "/api/v1/closed", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_Recover(t *testing.T) {
	r := newTestRouter(t, nil)
	r.GET("/health", func(*Request) (any, error) { panic("boom") })

	rec := serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error","code":"INTERNAL_ERROR"}`, rec.Body.String())
}

func TestRouter_Authentication(t *testing.T) {
	verifier, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "ecclesia",
		Audiences: []string{"access"},
		TTL:       time.Hour,
	})
	require.NoError(t, err)

	r := newTestRouter(t, verifier)
	r.GET("/api/v1/members/me", func(req *Request) (any, error) {
		return map[string]string{"email": jwt.GetAuth(req.Context()).UserEmail}, nil
	})

	rec := serve(r, http.MethodGet, "/api/v1/members/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication required","code":"UNAUTHORIZED"}`, rec.Body.String())

	rec = serve(r, http.MethodGet, "/api/v1/members/me", "", "Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := verifier.Generate(jwt.Subject{UserID: 7, Email: "jane@example.com", Role: "member"})
	require.NoError(t, err)

	rec = serve(r, http.MethodGet, "/api/v1/members/me", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"jane@example.com"}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	l, err := ratelimit.New(ratelimit.Config{Rate: "1-M"})
	require.NoError(t, err)

	r := newTestRouter(t, nil)
	r.POST("/api/v1/verification/otp", func(*Request) (any, error) { return map[string]bool{"success": true}, nil }, RateLimit(l))

	rec := serve(r, http.MethodPost, "/api/v1/verification/otp", `{}`, "X-Real-IP", "203.0.113.7")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = serve(r, http.MethodPost, "/api/v1/verification/otp", `{}`, "X-Real-IP", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests. Please try again later.","code":"RATE_LIMITED"}`, rec.Body.String())

	rec = serve(r, http.MethodPost, "/api/v1/verification/otp", `{}`, "X-Real-IP", "203.0.113.8")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDecodeBody(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}

	req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","extra":1}`))}
	require.NoError(t, req.DecodeBody(&dst))
	assert.Equal(t, "a@b.co", dst.Email)

	for _, body := range []string{"", "{", `{"email":"a"}{"email":"b"}`, `{"email":1}`} {
		req = &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))}
		var gerr *goerror.Error
		assert.ErrorAs(t, req.DecodeBody(&dst), &gerr, body)
	}
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", realIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.2")
	assert.Equal(t, "198.51.100.1", realIP(req))

	req.Header.Set("True-Client-IP", "not-an-ip")
	assert.Equal(t, "10.0.0.1", realIP(req))
}
