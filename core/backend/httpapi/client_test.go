package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendMessageReturnsContent(t *testing.T) {
	var (
		gotPath   string
		gotAuth   string
		gotBody   sendMessageRequest
		bodyError error
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		bodyError = json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(sendMessageResponse{Content: "Hello"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithAuthToken("secret"))
	if err != nil {
		t.Fatalf("expected client creation to succeed, got %v", err)
	}

	content, err := client.SendMessage(context.Background(), "c1", "Hi")
	if err != nil {
		t.Fatalf("expected send to succeed, got %v", err)
	}
	if content != "Hello" {
		t.Fatalf("expected content %q, got %q", "Hello", content)
	}

	if gotPath != sendMessagePath {
		t.Fatalf("expected request path %q, got %q", sendMessagePath, gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if bodyError != nil {
		t.Fatalf("expected request body to decode, got %v", bodyError)
	}
	if gotBody.ConversationID != "c1" || gotBody.Content != "Hi" {
		t.Fatalf("expected c1/Hi request body, got %+v", gotBody)
	}
}

func TestSendMessageSurfacesBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errorResponse{Error: "vector store unavailable"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("expected client creation to succeed, got %v", err)
	}

	if _, err := client.SendMessage(context.Background(), "c1", "Hi"); err == nil {
		t.Fatalf("expected backend error to surface")
	} else if !strings.Contains(err.Error(), "vector store unavailable") {
		t.Fatalf("expected backend error description, got %v", err)
	}
}

func TestSendMessageSurfacesUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("expected client creation to succeed, got %v", err)
	}

	if _, err := client.SendMessage(context.Background(), "c1", "Hi"); err == nil {
		t.Fatalf("expected unexpected status to surface as error")
	} else if !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status code in error, got %v", err)
	}
}

func TestNewClientRejectsNonHTTPScheme(t *testing.T) {
	if _, err := NewClient("ws://localhost:4175"); err == nil {
		t.Fatalf("expected ws scheme to be rejected")
	}
}
