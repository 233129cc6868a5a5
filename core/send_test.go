package chatstream

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/minekb/minekb-core/core/eventbus/inmem"
)

func TestSendMessageReturnsAggregatedResponse(t *testing.T) {
	hub := inmem.NewHub()
	defer hub.Close()

	caller := &callerStub{send: func(ctx context.Context, conversationID string, content string) (string, error) {
		if conversationID != "c1" || content != "Hi" {
			t.Errorf("expected c1/Hi to be forwarded, got %s/%s", conversationID, content)
		}
		return "Hello", nil
	}}

	client := NewClient(hub, caller)
	response, err := client.SendMessage(context.Background(), "c1", "Hi")
	if err != nil {
		t.Fatalf("expected send to succeed, got %v", err)
	}
	if response != "Hello" {
		t.Fatalf("expected response %q, got %q", "Hello", response)
	}
	if got := caller.called.Load(); got != 1 {
		t.Fatalf("expected exactly one outbound call, got %d", got)
	}
}

func TestSendMessageSurfacesCallerFailure(t *testing.T) {
	hub := inmem.NewHub()
	defer hub.Close()

	caller := &callerStub{send: func(ctx context.Context, conversationID string, content string) (string, error) {
		return "", errors.New("backend rejected message")
	}}

	client := NewClient(hub, caller)
	if _, err := client.SendMessage(context.Background(), "c1", "Hi"); err == nil {
		t.Fatalf("expected caller failure to surface")
	} else if !strings.Contains(err.Error(), "backend rejected message") {
		t.Fatalf("expected caller failure description, got %v", err)
	}
}

func TestSendMessageRequiresConversationID(t *testing.T) {
	hub := inmem.NewHub()
	defer hub.Close()
	caller := &callerStub{}

	client := NewClient(hub, caller)
	if _, err := client.SendMessage(context.Background(), "", "Hi"); !errors.Is(err, ErrNoConversationID) {
		t.Fatalf("expected ErrNoConversationID, got %v", err)
	}
	if got := caller.called.Load(); got != 0 {
		t.Fatalf("expected no outbound call, got %d", got)
	}
}
