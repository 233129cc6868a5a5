package inmem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minekb/minekb-core/core/eventbus"
)

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	first, err := hub.Subscribe(context.Background(), "stream-token")
	if err != nil {
		t.Fatalf("expected first subscribe to succeed, got %v", err)
	}
	second, err := hub.Subscribe(context.Background(), "stream-token")
	if err != nil {
		t.Fatalf("expected second subscribe to succeed, got %v", err)
	}

	if err := hub.Publish(context.Background(), "stream-token", []byte(`{"token":"x"}`)); err != nil {
		t.Fatalf("expected publish to succeed, got %v", err)
	}

	for _, sub := range []eventbus.Subscription{first, second} {
		select {
		case envelope := <-sub.Events():
			if envelope.Channel != "stream-token" {
				t.Fatalf("expected channel stream-token, got %q", envelope.Channel)
			}
			if string(envelope.Payload) != `{"token":"x"}` {
				t.Fatalf("expected payload to carry through, got %q", envelope.Payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("expected every subscriber to receive the event")
		}
	}
}

func TestPublishPreservesPerChannelOrder(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub, err := hub.Subscribe(context.Background(), "stream-token")
	if err != nil {
		t.Fatalf("expected subscribe to succeed, got %v", err)
	}

	payloads := []string{"a", "b", "c", "d"}
	for _, payload := range payloads {
		if err := hub.Publish(context.Background(), "stream-token", []byte(payload)); err != nil {
			t.Fatalf("expected publish to succeed, got %v", err)
		}
	}

	for _, expected := range payloads {
		select {
		case envelope := <-sub.Events():
			if string(envelope.Payload) != expected {
				t.Fatalf("expected payload %q, got %q", expected, envelope.Payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("expected payload %q to be delivered", expected)
		}
	}
}

func TestPublishIgnoresOtherChannels(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub, err := hub.Subscribe(context.Background(), "stream-end")
	if err != nil {
		t.Fatalf("expected subscribe to succeed, got %v", err)
	}

	if err := hub.Publish(context.Background(), "stream-token", []byte("x")); err != nil {
		t.Fatalf("expected publish without subscribers to be a no-op, got %v", err)
	}

	select {
	case envelope := <-sub.Events():
		t.Fatalf("expected no delivery on stream-end, got %q", envelope.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub, err := hub.Subscribe(context.Background(), "stream-token")
	if err != nil {
		t.Fatalf("expected subscribe to succeed, got %v", err)
	}

	sub.Unsubscribe()
	sub.Unsubscribe()

	if err := hub.Publish(context.Background(), "stream-token", []byte("late")); err != nil {
		t.Fatalf("expected publish after unsubscribe to succeed, got %v", err)
	}

	select {
	case envelope := <-sub.Events():
		t.Fatalf("expected no delivery after unsubscribe, got %q", envelope.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClosedHubRejectsOperations(t *testing.T) {
	hub := NewHub()
	hub.Close()
	hub.Close()

	if _, err := hub.Subscribe(context.Background(), "stream-token"); !errors.Is(err, eventbus.ErrClosed) {
		t.Fatalf("expected subscribe on closed hub to fail with ErrClosed, got %v", err)
	}
	if err := hub.Publish(context.Background(), "stream-token", []byte("x")); !errors.Is(err, eventbus.ErrClosed) {
		t.Fatalf("expected publish on closed hub to fail with ErrClosed, got %v", err)
	}
}

func TestPublishHonorsContextWhenBufferFull(t *testing.T) {
	hub := NewHub(WithSubscriptionBuffer(1))
	defer hub.Close()

	if _, err := hub.Subscribe(context.Background(), "stream-token"); err != nil {
		t.Fatalf("expected subscribe to succeed, got %v", err)
	}

	if err := hub.Publish(context.Background(), "stream-token", []byte("first")); err != nil {
		t.Fatalf("expected buffered publish to succeed, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := hub.Publish(ctx, "stream-token", []byte("second")); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected publish to a full subscriber to time out, got %v", err)
	}
}
