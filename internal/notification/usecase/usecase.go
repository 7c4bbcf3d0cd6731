package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/ecclesia/internal/pkg/config"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/mail"
	"github.com/shandysiswandi/ecclesia/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoMail interface {
	Configured() bool
	Send(ctx context.Context, msg mail.Message) (string, error)
}

type Usecase struct {
	repoMail  repoMail
	validator validator.Validator
	cfg       config.Config
	ins       instrument.Instrumentation

	sent metric.Int64Counter
}

type Dependency struct {
	RepoMail   repoMail
	Validator  validator.Validator
	Config     config.Config
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	uc := &Usecase{
		repoMail:  dep.RepoMail,
		validator: dep.Validator,
		cfg:       dep.Config,
		ins:       dep.Instrument,
	}

	if uc.ins == nil {
		uc.ins = instrument.NewNoop()
	}

	sent, err := uc.ins.Meter("notification.usecase").Int64Counter("notification.welcome.sent",
		metric.WithDescription("Welcome emails delivered"))
	if err != nil {
		slog.Error("failed to create counter", "name", "notification.welcome.sent", "error", err)
	}
	uc.sent = sent

	return uc
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) setting(key, fallback string) string {
	if s.cfg == nil {
		return fallback
	}
	if v := strings.TrimSpace(s.cfg.GetString(key)); v != "" {
		return v
	}
	return fallback
}
