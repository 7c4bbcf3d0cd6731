package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/ecclesia/internal/pkg/clock"
	"github.com/shandysiswandi/ecclesia/internal/pkg/config"
	"github.com/shandysiswandi/ecclesia/internal/pkg/goerror"
	"github.com/shandysiswandi/ecclesia/internal/pkg/hash"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/jwt"
	"github.com/shandysiswandi/ecclesia/internal/pkg/mail"
	"github.com/shandysiswandi/ecclesia/internal/pkg/validator"
	"github.com/shandysiswandi/ecclesia/internal/verification/entity"
	"github.com/ulule/limiter/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoStore interface {
	Set(ctx context.Context, c entity.Challenge) error
	Mutate(ctx context.Context, email string, fn func(c *entity.Challenge) entity.Decision) error
}

type repoMail interface {
	Configured() bool
	Send(ctx context.Context, msg mail.Message) (string, error)
}

type rateLimiter interface {
	Get(ctx context.Context, key string) (limiter.Context, error)
}

// CodeGenerator produces six-digit verification codes.
type CodeGenerator interface {
	Generate() string
}

type Usecase struct {
	repoStore repoStore
	repoMail  repoMail
	limiter   rateLimiter
	codes     CodeGenerator
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	salt      func() (string, error)
	ticket    jwt.JWT
	clock     clock.Clocker
	ins       instrument.Instrumentation

	issued   metric.Int64Counter
	verified metric.Int64Counter
	failed   metric.Int64Counter
}

type Dependency struct {
	RepoStore repoStore
	RepoMail  repoMail
	// Limiter caps issuance per email; nil disables the limit.
	Limiter    rateLimiter
	Codes      CodeGenerator
	Validator  validator.Validator
	Config     config.Config
	HMAC       hash.Hash
	Ticket     jwt.JWT
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	uc := &Usecase{
		repoStore: dep.RepoStore,
		repoMail:  dep.RepoMail,
		codes:     dep.Codes,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		salt:      newSalt,
		ticket:    dep.Ticket,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}

	// a typed nil *limiter.Limiter must not become a non-nil interface
	if l, ok := dep.Limiter.(*limiter.Limiter); !ok || l != nil {
		uc.limiter = dep.Limiter
	}
	if uc.codes == nil {
		uc.codes = CryptoCodes{}
	}
	if uc.clock == nil {
		uc.clock = clock.New()
	}
	if uc.ins == nil {
		uc.ins = instrument.NewNoop()
	}

	meter := uc.ins.Meter("verification.usecase")
	uc.issued = counter(meter, "verification.otp.issued", "OTP codes delivered and stored")
	uc.verified = counter(meter, "verification.otp.verified", "OTP codes verified successfully")
	uc.failed = counter(meter, "verification.otp.failed", "OTP verifications rejected, by reason")

	return uc
}

func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Error("failed to create counter", "name", name, "error", err)
	}
	return c
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

func (s *Usecase) recordFailure(ctx context.Context, reason entity.Outcome) {
	if s.failed != nil {
		s.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason.String())))
	}
}

func (s *Usecase) codeHash(salt, code string) (string, error) {
	h, err := s.hmac.Hash(salt + code)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// validationMessage picks the single human message for a failed issue request.
// Missing fields win over format problems, email over name.
func validationMessage(err error) (string, map[string]string, bool) {
	var ve *validator.ValidationError
	if !errors.As(err, &ve) {
		return "", nil, false
	}

	for _, field := range ve.Fields() {
		if ve.Tag(field) == "required" {
			return msgRequired, ve.Values(), true
		}
	}

	switch {
	case ve.Tag("email") != "":
		return msgInvalidEmail, ve.Values(), true
	case ve.Tag("firstName") != "":
		return msgShortName, ve.Values(), true
	case ve.Tag("lastName") != "":
		return msgLongLastName, ve.Values(), true
	default:
		return msgRequired, ve.Values(), true
	}
}

// newBusiness builds a verify failure carrying its machine kind.
func newBusiness(msg, kind string, opts ...goerror.Option) error {
	return goerror.NewBusiness(msg, goerror.CodeBadRequest, append([]goerror.Option{goerror.WithKind(kind)}, opts...)...)
}
