package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shandysiswandi/ecclesia/internal/membership/entity"
	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/hash"
	"github.com/shandysiswandi/ecclesia/internal/pkg/idempotency"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
	"github.com/shandysiswandi/ecclesia/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return 1000 + s.n
}

type seqUUID struct {
	mu sync.Mutex
	n  int
}

func (s *seqUUID) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return "jti-" + strings.Repeat("x", s.n)
}

type fakeDB struct {
	mu      sync.Mutex
	members map[string]entity.NewMember
	err     error
}

func (f *fakeDB) CreateMember(_ context.Context, in entity.NewMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.members[in.Email]; ok {
		return goerror.ErrConflict
	}
	f.members[in.Email] = in
	return nil
}

func (f *fakeDB) GetMemberCredential(_ context.Context, email string) (*entity.MemberCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.members[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &entity.MemberCredential{ID: m.ID, Email: m.Email, PasswordHash: m.PasswordHash, Role: m.Role}, nil
}

func (f *fakeDB) GetMemberByID(_ context.Context, id int64) (*entity.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.ID == id {
			return &entity.Member{
				ID: m.ID, Email: m.Email, FirstName: m.FirstName, LastName: m.LastName,
				Role: m.Role, EmailVerifiedAt: m.EmailVerifiedAt,
			}, nil
		}
	}
	return nil, goerror.ErrNotFound
}

type fakeMQ struct {
	events []MemberRegisteredEvent
	err    error
}

func (f *fakeMQ) PublishMemberRegistered(_ context.Context, msg MemberRegisteredEvent) error {
	f.events = append(f.events, msg)
	return f.err
}

// onceTracker mimics the Redis state tracker in memory.
type onceTracker struct {
	mu   sync.Mutex
	done map[string]bool
}

func (o *onceTracker) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}
func (o *onceTracker) MarkCompleted(context.Context, string, time.Duration) error { return nil }
func (o *onceTracker) Release(context.Context, string) error                      { return nil }

func (o *onceTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done[key] {
		return idempotency.ErrAlreadyCompleted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	o.done[key] = true
	return nil
}

type harness struct {
	uc     *Usecase
	db     *fakeDB
	mq     *fakeMQ
	ticket *jwt.Symmetric
	access *jwt.Symmetric
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := fixedClock{now: epoch}
	ticket, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("r", 64)), Issuer: "ecclesia", Audiences: []string{"registration"},
		TTL: 15 * time.Minute, Clock: clk, UUID: &seqUUID{},
	})
	require.NoError(t, err)
	access, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("a", 64)), Issuer: "ecclesia", Audiences: []string{"api"},
		TTL: time.Hour, Clock: clk, UUID: &seqUUID{},
	})
	require.NoError(t, err)

	h := &harness{
		db:     &fakeDB{members: map[string]entity.NewMember{}},
		mq:     &fakeMQ{},
		ticket: ticket,
		access: access,
	}
	h.uc = New(Dependency{
		RepoDB:        h.db,
		RepoMessaging: h.mq,
		Idempotency:   &onceTracker{done: map[string]bool{}},
		Validator:     v,
		Password:      hash.NewBcrypt(4, "pepper"),
		UID:           &seqID{},
		Ticket:        ticket,
		Access:        access,
		Clock:         clk,
	})

	return h
}

func (h *harness) mintTicket(t *testing.T, email string) string {
	t.Helper()
	tkn, err := h.ticket.Generate(jwt.Subject{Email: email})
	require.NoError(t, err)
	return tkn
}

func assertCode(t *testing.T, err error, code goerror.Code, msg string) {
	t.Helper()
	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, code, gerr.Code())
	if msg != "" {
		assert.Equal(t, msg, gerr.Msg())
	}
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	out, err := h.uc.Register(context.Background(), RegisterInput{
		RegistrationToken: h.mintTicket(t, "jane@example.com"),
		FirstName:         " Jane ",
		LastName:          "Doe",
		Password:          "Secret123!",
		ConfirmPassword:   "Secret123!",
	})
	require.NoError(t, err)

	assert.Equal(t, Member{
		ID:              1001,
		Email:           "jane@example.com",
		FirstName:       "Jane",
		LastName:        "Doe",
		Role:            "member",
		EmailVerifiedAt: epoch,
	}, out.Member)

	stored := h.db.members["jane@example.com"]
	assert.NotEqual(t, "Secret123!", stored.PasswordHash)
	assert.Equal(t, entity.RoleMember, stored.Role)

	require.Len(t, h.mq.events, 1)
	assert.Equal(t, MemberRegisteredEvent{MemberID: 1001, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}, h.mq.events[0])
}

func TestRegister_TicketSingleUse(t *testing.T) {
	h := newHarness(t)
	in := RegisterInput{RegistrationToken: h.mintTicket(t, "jane@example.com"), FirstName: "Jane", Password: "Secret123!"}

	_, err := h.uc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = h.uc.Register(context.Background(), in)
	assertCode(t, err, goerror.CodeUnauthorized, "Registration token has already been used")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := newHarness(t)

	_, err := h.uc.Register(context.Background(), RegisterInput{
		RegistrationToken: h.mintTicket(t, "jane@example.com"), FirstName: "Jane", Password: "Secret123!",
	})
	require.NoError(t, err)

	// a second verified ticket for the same address
	_, err = h.uc.Register(context.Background(), RegisterInput{
		RegistrationToken: h.mintTicket(t, "jane@example.com"), FirstName: "Janet", Password: "Secret123!",
	})
	assertCode(t, err, goerror.CodeConflict, "Email already registered")
}

func TestRegister_RejectsForeignTokens(t *testing.T) {
	h := newHarness(t)

	accessToken, err := h.access.Generate(jwt.Subject{UserID: 1, Email: "jane@example.com", Role: "member"})
	require.NoError(t, err)

	for _, tkn := range []string{"not-a-jwt", accessToken} {
		_, err := h.uc.Register(context.Background(), RegisterInput{RegistrationToken: tkn, FirstName: "Jane", Password: "Secret123!"})
		assertCode(t, err, goerror.CodeUnauthorized, "Invalid or expired registration token")
	}
	assert.Empty(t, h.db.members)
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)

	_, err := h.uc.Register(context.Background(), RegisterInput{
		RegistrationToken: "x",
		FirstName:         "J",
		Password:          "short",
		ConfirmPassword:   "other",
	})
	assertCode(t, err, goerror.CodeInvalidInput, "Validation error")

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Contains(t, gerr.Fields(), "firstName")
	assert.Contains(t, gerr.Fields(), "password")
	assert.Contains(t, gerr.Fields(), "confirmPassword")
}

func TestRegister_PublishFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.mq.err = errors.New("broker down")

	_, err := h.uc.Register(context.Background(), RegisterInput{
		RegistrationToken: h.mintTicket(t, "jane@example.com"), FirstName: "Jane", Password: "Secret123!",
	})
	require.NoError(t, err)
	assert.Len(t, h.db.members, 1)
}

func TestRegister_WithoutIdempotency(t *testing.T) {
	h := newHarness(t)
	h.uc.idemp = nil

	_, err := h.uc.Register(context.Background(), RegisterInput{
		RegistrationToken: h.mintTicket(t, "jane@example.com"), FirstName: "Jane", Password: "Secret123!",
	})
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	password := gofakeit.Password(true, true, true, false, false, 12)

	_, err := h.uc.Register(context.Background(), RegisterInput{
		RegistrationToken: h.mintTicket(t, "jane@example.com"), FirstName: "Jane", Password: password,
	})
	require.NoError(t, err)

	out, err := h.uc.Login(context.Background(), LoginInput{Email: " Jane@Example.com ", Password: password})
	require.NoError(t, err)

	claims, err := h.access.Verify(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), claims.UserID)
	assert.Equal(t, "member", claims.Role)

	_, err = h.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: password + "x"})
	assertCode(t, err, goerror.CodeUnauthorized, "Invalid email or password")

	_, err = h.uc.Login(context.Background(), LoginInput{Email: "john@example.com", Password: password})
	assertCode(t, err, goerror.CodeUnauthorized, "Invalid email or password")

	_, err = h.uc.Login(context.Background(), LoginInput{Email: "john", Password: password})
	assertCode(t, err, goerror.CodeInvalidInput, "Validation error")
}

func TestLogin_RepoFailure(t *testing.T) {
	h := newHarness(t)
	h.db.err = errors.New("pool exhausted")

	_, err := h.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "Secret123!"})
	assertCode(t, err, goerror.CodeInternal, "")
}

func TestProfile(t *testing.T) {
	h := newHarness(t)

	_, err := h.uc.Profile(context.Background())
	assertCode(t, err, goerror.CodeUnauthorized, "Authentication required")

	reg, err := h.uc.Register(context.Background(), RegisterInput{
		RegistrationToken: h.mintTicket(t, "jane@example.com"), FirstName: "Jane", Password: "Secret123!",
	})
	require.NoError(t, err)

	ctx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: reg.Member.ID, UserEmail: "jane@example.com"})
	out, err := h.uc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, reg.Member, out.Member)

	ctx = jwt.SetAuth(context.Background(), jwt.Claims{UserID: 42})
	_, err = h.uc.Profile(ctx)
	assertCode(t, err, goerror.CodeUnauthorized, "Authentication required")
}
