// Package inmem provides an in-process eventbus.Bus used by the websocket
// bridge for local fan-out and by tests as a fake backend bus.
package inmem

import (
	"context"
	"sync"

	"github.com/minekb/minekb-core/core/eventbus"
)

const defaultSubscriptionBuffer = 64

type HubOption func(*Hub)

// WithSubscriptionBuffer sets the per-subscription delivery buffer. A
// publish to a subscriber whose buffer is full blocks until the
// subscriber drains an event or unsubscribes.
func WithSubscriptionBuffer(size int) HubOption {
	return func(h *Hub) {
		if size > 0 {
			h.buffer = size
		}
	}
}

// Hub is an in-memory channel registry. Sequential publishes to one
// channel are delivered to each subscriber in publish order.
type Hub struct {
	mu            sync.RWMutex
	closed        bool
	subscriptions map[string][]*subscription

	buffer int
}

var _ eventbus.Bus = (*Hub)(nil)

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subscriptions: map[string][]*subscription{},
		buffer:        defaultSubscriptionBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Subscribe(_ context.Context, channel string) (eventbus.Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, eventbus.ErrClosed
	}

	sub := &subscription{
		hub:     h,
		channel: channel,
		events:  make(chan eventbus.Envelope, h.buffer),
		done:    make(chan struct{}),
	}
	h.subscriptions[channel] = append(h.subscriptions[channel], sub)
	return sub, nil
}

// Publish delivers the payload to every current subscriber of the
// channel. Publishing to a channel with no subscribers is a no-op.
func (h *Hub) Publish(ctx context.Context, channel string, payload []byte) error {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return eventbus.ErrClosed
	}
	subscribers := make([]*subscription, len(h.subscriptions[channel]))
	copy(subscribers, h.subscriptions[channel])
	h.mu.RUnlock()

	envelope := eventbus.Envelope{Channel: channel, Payload: payload}
	for _, sub := range subscribers {
		select {
		case sub.events <- envelope:
		case <-sub.done:
			// Unsubscribed while we were delivering; drop.
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close drops all subscriptions and fails subsequent Subscribe and
// Publish calls with eventbus.ErrClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for _, subscribers := range h.subscriptions {
		for _, sub := range subscribers {
			sub.release()
		}
	}
	h.subscriptions = map[string][]*subscription{}
}

type subscription struct {
	hub     *Hub
	channel string
	events  chan eventbus.Envelope

	releaseOnce sync.Once
	done        chan struct{}
}

func (s *subscription) Events() <-chan eventbus.Envelope {
	return s.events
}

func (s *subscription) Unsubscribe() {
	s.release()

	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	subscribers := s.hub.subscriptions[s.channel]
	for i, sub := range subscribers {
		if sub == s {
			s.hub.subscriptions[s.channel] = append(subscribers[:i], subscribers[i+1:]...)
			break
		}
	}
}

// release gates further deliveries without touching the registry; Close
// holds the hub lock when calling it.
func (s *subscription) release() {
	s.releaseOnce.Do(func() {
		close(s.done)
	})
}
