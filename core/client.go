// Package chatstream coordinates the MineKB backend's asynchronously
// pushed stream channels into ordered caller callbacks scoped to one
// conversation.
//
// A stream invocation subscribes to the five stream channels before the
// outbound send-message call is issued, filters every pushed event by
// conversation id, dispatches matching events to the registered
// callbacks in arrival order, and releases all five subscriptions
// exactly once when a terminal event arrives or issuance fails. Multiple
// invocations may run concurrently against the same bus; the identity
// filter is the only thing keeping their streams apart, so conversation
// ids must be unique per in-flight request.
package chatstream

import (
	"errors"

	"github.com/minekb/minekb-core/core/backend"
	"github.com/minekb/minekb-core/core/eventbus"
)

var (
	// ErrNoTokenCallback is returned when a stream is requested without a
	// token callback. A stream nobody reads incrementally is meaningless;
	// use SendMessage instead.
	ErrNoTokenCallback = errors.New("streaming requires a token callback")

	// ErrNoConversationID is returned for an empty conversation id. An
	// empty correlation key would defeat cross-talk filtering on the
	// shared bus.
	ErrNoConversationID = errors.New("conversation id must not be empty")

	// ErrStreamFailed wraps the backend's pushed stream-error description.
	ErrStreamFailed = errors.New("stream failed")

	// ErrStreamDeadlineExceeded is returned when no terminal event
	// arrived before the configured stream deadline.
	ErrStreamDeadlineExceeded = errors.New("no terminal event arrived before the stream deadline")

	// ErrStartupFailed wraps a startup progress event with error status.
	ErrStartupFailed = errors.New("backend startup failed")

	// ErrStartupDeadlineExceeded is returned when the backend reported no
	// terminal startup status before the configured deadline.
	ErrStartupDeadlineExceeded = errors.New("no terminal startup event arrived before the deadline")
)

// Client coordinates streaming exchanges against one backend. The zero
// value is not usable; both the bus and the caller are required.
type Client struct {
	bus     eventbus.Bus
	caller  backend.Caller
	options ClientOptions
}

func NewClient(bus eventbus.Bus, caller backend.Caller, opts ...ClientOption) *Client {
	c := &Client{bus: bus, caller: caller}
	for _, opt := range opts {
		opt(&c.options)
	}
	return c
}
