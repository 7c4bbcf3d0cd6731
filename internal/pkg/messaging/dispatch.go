package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"github.com/shandysiswandi/ecclesia/internal/pkg/stacktrace"
)

// responder tracks whether a message was already acked or nacked.
type responder struct {
	done atomic.Bool
}

// claim reports true the first time it is called.
func (r *responder) claim() bool {
	return !r.done.Swap(true)
}

func (r *responder) responded() bool {
	return r.done.Load()
}

type ackable interface {
	Message
	responded() bool
}

// dispatch runs handler with panic recovery and applies auto-ack.
// The returned error is the ack/nack failure, not the handler error.
func dispatch(ctx context.Context, kind string, msg ackable, handler Handler, autoAck bool) error {
	herr := safeCall(ctx, kind, func() error { return handler(ctx, msg) })
	if herr != nil {
		slog.WarnContext(ctx, "messaging handler returned error", "kind", kind, "topic", msg.Topic(), "error", herr)
	}

	if !autoAck || msg.responded() {
		return nil
	}
	if herr == nil {
		return msg.Ack(ctx)
	}
	return msg.Nack(ctx)
}

func safeCall(ctx context.Context, kind string, fn func() error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", kind, rvr)
		}
	}()

	return fn()
}
