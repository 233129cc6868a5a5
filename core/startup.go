package chatstream

import (
	"context"
	"fmt"
	"time"

	"github.com/minekb/minekb-core/core/eventbus"
	"github.com/minekb/minekb-core/core/events"
	"go.opentelemetry.io/otel/codes"
)

// WatchStartup observes the backend's startup-progress channel until the
// backend reports its final step succeeded or any step failed. The
// channel is a process-wide singleton stream, so there is no identity
// filtering; this is the single-channel sibling of StreamMessage with
// the same one-shot cleanup discipline.
func WatchStartup(ctx context.Context, bus eventbus.Bus, opts ...StartupOption) error {
	ctx, span := tracer.Start(ctx, "watch startup")
	defer span.End()

	options := StartupOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	recordFailure := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	subscription, err := bus.Subscribe(ctx, string(events.KindStartupProgress))
	if err != nil {
		return recordFailure(fmt.Errorf("failed to subscribe to %s: %w", events.KindStartupProgress, err))
	}
	defer subscription.Unsubscribe()

	fail := func(err error) error {
		if options.onError != nil {
			options.onError(err)
		}
		return recordFailure(err)
	}

	var deadlineExpired <-chan time.Time
	if options.deadline > 0 {
		timer := time.NewTimer(options.deadline)
		defer timer.Stop()
		deadlineExpired = timer.C
	}

	for {
		select {
		case envelope := <-subscription.Events():
			event, err := events.Decode(envelope.Channel, envelope.Payload)
			if err != nil {
				logger.Debug("dropping undecodable startup event", "error", err)
				continue
			}
			progress, ok := event.(events.StartupProgress)
			if !ok {
				continue
			}

			if options.onProgress != nil {
				options.onProgress(progress)
			}
			if !progress.Terminal() {
				continue
			}

			if progress.Status == events.StartupStatusError {
				reason := progress.Err
				if reason == "" {
					reason = progress.Message
				}
				return fail(fmt.Errorf("%w: %s", ErrStartupFailed, reason))
			}

			if options.onReady != nil {
				options.onReady()
			}
			return nil

		case <-deadlineExpired:
			return fail(ErrStartupDeadlineExceeded)

		case <-ctx.Done():
			return fail(fmt.Errorf("startup watch interrupted: %w", ctx.Err()))
		}
	}
}
