package async

import (
	"context"

	"github.com/secmon-lab/segmentor/pkg/utils/errutil"
	"github.com/secmon-lab/segmentor/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine, detached from the cancellation
// of ctx but keeping its logger. Errors and panics are logged. The returned
// channel is closed when handler returns.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) <-chan struct{} {
	bgCtx := context.WithoutCancel(ctx)
	bgCtx = logging.With(bgCtx, logging.From(ctx))
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			errutil.Log(bgCtx, err, "async handler failed")
		}
	}()

	return done
}
