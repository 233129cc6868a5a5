package chatstream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minekb/minekb-core/core/eventbus"
	"github.com/minekb/minekb-core/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// StreamMessage sends content on a conversation and dispatches the
// backend's pushed stream events to the registered callbacks until a
// terminal event arrives. It blocks until the subscriptions have been
// released and returns nil after a matching stream-end, or the failure
// after a matching stream-error, an issuance failure, a deadline expiry,
// or context cancellation.
//
// All five stream channels are subscribed before the outbound call is
// issued, so no early event can be lost. If establishing any
// subscription fails, the ones already established are released and the
// request is never issued.
func (c *Client) StreamMessage(ctx context.Context, conversationID string, content string, opts ...StreamOption) error {
	ctx, span := tracer.Start(ctx, "stream message")
	defer span.End()
	span.SetAttributes(attribute.String("conversation.id", conversationID))

	options := StreamOptions{deadline: c.options.defaultStreamDeadline}
	for _, opt := range opts {
		opt(&options)
	}

	recordFailure := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if conversationID == "" {
		return recordFailure(ErrNoConversationID)
	}
	if options.onToken == nil {
		return recordFailure(ErrNoTokenCallback)
	}

	subscriptions, err := c.subscribeStreamChannels(ctx)
	if err != nil {
		return recordFailure(err)
	}

	var cleanupOnce sync.Once
	cleanup := func() {
		cleanupOnce.Do(func() {
			for _, subscription := range subscriptions {
				subscription.Unsubscribe()
			}
		})
	}
	defer cleanup()

	finish := func(err error) error {
		cleanup()
		outcome := "success"
		if err != nil {
			outcome = "error"
			recordFailure(err)
		}
		streamsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		return err
	}
	fail := func(err error) error {
		if options.onError != nil {
			options.onError(err)
		}
		return finish(err)
	}

	// The acknowledgement resolves only after generation completes, so
	// issuance runs concurrently with dispatch; only its failure feeds
	// back into the loop, where it terminates the stream like a pushed
	// stream-error would.
	issueCtx, cancelIssue := context.WithCancel(ctx)
	defer cancelIssue()
	issueFailures := make(chan error, 1)
	go func() {
		if _, err := c.caller.SendMessage(issueCtx, conversationID, content); err != nil {
			issueFailures <- err
		}
	}()

	var deadlineExpired <-chan time.Time
	if options.deadline > 0 {
		timer := time.NewTimer(options.deadline)
		defer timer.Stop()
		deadlineExpired = timer.C
	}

	dispatcher := streamDispatcher{conversationID: conversationID, options: &options}

	startSub, tokenSub, contextSub, endSub, errorSub := subscriptions[0], subscriptions[1], subscriptions[2], subscriptions[3], subscriptions[4]

	// drainPending dispatches everything already buffered on the
	// non-terminal channels. The backend pushes those before its terminal
	// event, so they must reach the callbacks before the terminal one
	// does; without the drain they would race the terminal dispatch and
	// be dropped.
	drainPending := func() (bool, error) {
		for {
			var envelope eventbus.Envelope
			select {
			case envelope = <-startSub.Events():
			case envelope = <-tokenSub.Events():
			case envelope = <-contextSub.Events():
			default:
				return false, nil
			}
			if terminal, err := dispatcher.dispatch(ctx, envelope); terminal {
				return true, err
			}
		}
	}

	for {
		var envelope eventbus.Envelope
		fromTerminalChannel := false
		select {
		case envelope = <-startSub.Events():
		case envelope = <-tokenSub.Events():
		case envelope = <-contextSub.Events():
		case envelope = <-endSub.Events():
			fromTerminalChannel = true
		case envelope = <-errorSub.Events():
			fromTerminalChannel = true
		case err := <-issueFailures:
			return fail(fmt.Errorf("failed to send message: %w", err))
		case <-deadlineExpired:
			return fail(ErrStreamDeadlineExceeded)
		case <-ctx.Done():
			return fail(fmt.Errorf("stream interrupted: %w", ctx.Err()))
		}

		if fromTerminalChannel {
			if terminal, err := drainPending(); terminal {
				return finish(err)
			}
		}

		if terminal, err := dispatcher.dispatch(ctx, envelope); terminal {
			return finish(err)
		}
	}
}

func (c *Client) subscribeStreamChannels(ctx context.Context) ([]eventbus.Subscription, error) {
	kinds := events.StreamKinds()
	subscriptions := make([]eventbus.Subscription, 0, len(kinds))
	for _, kind := range kinds {
		subscription, err := c.bus.Subscribe(ctx, string(kind))
		if err != nil {
			for _, established := range subscriptions {
				established.Unsubscribe()
			}
			return nil, fmt.Errorf("failed to subscribe to %s: %w", kind, err)
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, nil
}
