// Package httpapi implements the backend Caller contract over plain HTTP,
// for backends that expose the send-message call without a websocket.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/minekb/minekb-core/core/backend"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const sendMessagePath = "/api/send-message"

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The transport is
// still wrapped for tracing.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithAuthToken sets a bearer token attached to every request.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

// Client issues send-message calls against an HTTP backend.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

var _ backend.Caller = (*Client)(nil)

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported backend url scheme %q", parsed.Scheme)
	}

	c := &Client{
		baseURL:    parsed.String(),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient.Transport = otelhttp.NewTransport(c.httpClient.Transport)
	return c, nil
}

type sendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

type sendMessageResponse struct {
	Content string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) SendMessage(ctx context.Context, conversationID string, content string) (string, error) {
	ctx, span := tracer.Start(ctx, "send message", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("conversation.id", conversationID))

	requestBodyBytes, err := json.Marshal(sendMessageRequest{
		ConversationID: conversationID,
		Content:        content,
	})
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+sendMessagePath, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading response body: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		var errorBody errorResponse
		if err := json.Unmarshal(body, &errorBody); err == nil && errorBody.Error != "" {
			err = fmt.Errorf("backend rejected message: %s", errorBody.Error)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}
		err = fmt.Errorf("backend returned unexpected status %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	var response sendMessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		err = fmt.Errorf("error unmarshalling response: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return response.Content, nil
}
