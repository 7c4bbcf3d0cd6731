package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/ecclesia/internal/pkg/config"
	"github.com/shandysiswandi/ecclesia/internal/pkg/goroutine"
	"github.com/shandysiswandi/ecclesia/internal/pkg/instrument"
	"github.com/shandysiswandi/ecclesia/internal/pkg/messaging"
	"github.com/shandysiswandi/ecclesia/internal/pkg/uid"
	"github.com/shandysiswandi/ecclesia/internal/shared/event"
)

const defaultConcurrency = 4

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enabled := cfg.GetArray("modules.notification.consumer_names")
	concurrency := cfg.GetInt("modules.notification.concurrency")
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	consumers := []struct {
		name    string
		topic   string // destination where publisher sent message
		handler messaging.Handler
	}{
		{
			name:    event.MemberRegisteredConsumerNotification,
			topic:   event.MemberRegisteredDestination,
			handler: mqHandler.MemberRegisteredNotification,
		},
	}

	for _, consumer := range consumers {
		// an empty list enables every consumer
		if len(enabled) > 0 && !slices.Contains(enabled, consumer.name) {
			continue
		}

		routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(pCtx, "Running job for handling consumer", "consumer", consumer.name)
			err := messenger.Consume(pCtx,
				consumer.topic,
				consumer.handler,
				messaging.WithGroup(consumer.name),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency),
			)
			if pCtx.Err() != nil {
				return nil
			}
			return err
		})
	}
}
