package notification

import (
	"context"

	"github.com/shandysiswandi/ecclesia/internal/notification/inbound"
	"github.com/shandysiswandi/ecclesia/internal/notification/outbound/email"
	"github.com/shandysiswandi/ecclesia/internal/notification/usecase"
	"github.com/shandysiswandi/ecclesia/internal/pkg/config"
	"github.com/shandysiswandi/ecclesia/internal/pkg/goroutine"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/mail"
	"github.com/shandysiswandi/ecclesia/internal/pkg/messaging"
	"github.com/shandysiswandi/ecclesia/internal/pkg/uid"
	"github.com/shandysiswandi/ecclesia/internal/pkg/validator"
)

type Dependency struct {
	// Ctx bounds the consumers; without it nothing is consumed.
	Ctx        context.Context
	Messaging  messaging.Consumer         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoMail:   email.New(dep.Mail, dep.Instrument),
		Validator:  dep.Validator,
		Config:     dep.Config,
		Instrument: dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
