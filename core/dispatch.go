package chatstream

import (
	"context"
	"fmt"

	"github.com/minekb/minekb-core/core/eventbus"
	"github.com/minekb/minekb-core/core/events"
)

// streamDispatcher owns identity filtering and callback fan-out for one
// stream invocation. It runs on the invocation's dispatch loop only, so
// no callback for the same invocation ever runs concurrently with
// another.
type streamDispatcher struct {
	conversationID string
	options        *StreamOptions

	started bool
}

// dispatch decodes one bus envelope and fans it out to the registered
// callbacks. It reports whether the event was terminal and, for a
// terminal failure, the error to surface. Foreign, undecodable, and
// duplicate-start events are dropped without side effects: the bus is
// shared by concurrent invocations, so a mismatch is expected noise, not
// a protocol violation.
func (d *streamDispatcher) dispatch(ctx context.Context, envelope eventbus.Envelope) (bool, error) {
	event, err := events.Decode(envelope.Channel, envelope.Payload)
	if err != nil {
		logger.Debug("dropping undecodable stream event", "channel", envelope.Channel, "error", err)
		return false, nil
	}

	correlated, ok := event.(events.Correlated)
	if !ok || correlated.Conversation() != d.conversationID {
		return false, nil
	}

	switch typedEvent := event.(type) {
	case events.StreamStarted:
		if d.started {
			logger.Debug("dropping duplicate stream start", "conversation", d.conversationID)
			return false, nil
		}
		d.started = true
		if d.options.onStart != nil {
			d.options.onStart()
		}

	case events.StreamToken:
		tokensCounter.Add(ctx, 1)
		d.options.onToken(typedEvent.Token)

	case events.StreamContext:
		if d.options.onContext != nil {
			d.options.onContext(typedEvent.Sources)
		}

	case events.StreamEnded:
		if d.options.onEnd != nil {
			d.options.onEnd(typedEvent.Content)
		}
		return true, nil

	case events.StreamFailed:
		failure := fmt.Errorf("%w: %s", ErrStreamFailed, typedEvent.Reason)
		if d.options.onError != nil {
			d.options.onError(failure)
		}
		return true, failure
	}

	return false, nil
}
