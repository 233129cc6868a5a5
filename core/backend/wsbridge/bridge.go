// Package wsbridge connects to a MineKB backend over a single websocket
// carrying both pushed stream events and invoke/result round-trips. A
// Bridge therefore implements both halves of the backend contract:
// eventbus.Bus for the pushed channels and backend.Caller for the
// send-message call.
package wsbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/minekb/minekb-core/core/backend"
	"github.com/minekb/minekb-core/core/eventbus"
	"github.com/minekb/minekb-core/core/eventbus/inmem"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const sendMessageCommand = "send_message"

// Wire frame types. Every websocket message is one JSON frame tagged by
// "type": "event" frames fan pushed channels out to local subscribers,
// "invoke" frames issue backend commands, "result"/"error" frames answer
// an invoke by id.
const (
	frameTypeEvent  = "event"
	frameTypeInvoke = "invoke"
	frameTypeResult = "result"
	frameTypeError  = "error"
)

type frame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Channel string          `json:"channel,omitempty"`
	Command string          `json:"command,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type sendMessagePayload struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

type Option func(*options)

type options struct {
	header          http.Header
	subscribeBuffer int
}

// WithDialHeader adds HTTP headers to the websocket handshake.
func WithDialHeader(header http.Header) Option {
	return func(o *options) {
		for key, values := range header {
			for _, value := range values {
				o.header.Add(key, value)
			}
		}
	}
}

// WithAuthToken sets a bearer token on the websocket handshake.
func WithAuthToken(token string) Option {
	return func(o *options) {
		o.header.Set("Authorization", "Bearer "+token)
	}
}

// WithSubscribeBuffer sets the per-subscription delivery buffer used for
// fanned-out event frames.
func WithSubscribeBuffer(size int) Option {
	return func(o *options) {
		o.subscribeBuffer = size
	}
}

// Bridge is one live backend connection.
type Bridge struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	hub *inmem.Hub

	pendingMu sync.Mutex
	pending   map[string]chan invokeResult

	closeOnce sync.Once
	closed    chan struct{}
}

type invokeResult struct {
	payload json.RawMessage
	err     error
}

var (
	_ eventbus.Bus   = (*Bridge)(nil)
	_ backend.Caller = (*Bridge)(nil)
)

// Dial connects to the backend websocket endpoint and starts the read
// loop. The url scheme must be ws or wss.
func Dial(ctx context.Context, rawURL string, opts ...Option) (*Bridge, error) {
	ctx, span := tracer.Start(ctx, "dial backend bridge", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("backend.url", rawURL))

	parsed, err := url.Parse(rawURL)
	if err != nil {
		err = fmt.Errorf("failed to parse backend url: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		err = fmt.Errorf("unsupported backend url scheme %q", parsed.Scheme)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	o := options{header: http.Header{}}
	for _, opt := range opts {
		opt(&o)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, parsed.String(), o.header)
	if err != nil {
		err = fmt.Errorf("failed to open socket connection to backend: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hubOpts := []inmem.HubOption{}
	if o.subscribeBuffer > 0 {
		hubOpts = append(hubOpts, inmem.WithSubscriptionBuffer(o.subscribeBuffer))
	}

	b := &Bridge{
		conn:    conn,
		hub:     inmem.NewHub(hubOpts...),
		pending: map[string]chan invokeResult{},
		closed:  make(chan struct{}),
	}

	go b.readLoop()

	return b, nil
}

// Subscribe registers for one pushed channel. Delivery order per channel
// matches the order of frames on the wire.
func (b *Bridge) Subscribe(ctx context.Context, channel string) (eventbus.Subscription, error) {
	select {
	case <-b.closed:
		return nil, eventbus.ErrClosed
	default:
	}
	return b.hub.Subscribe(ctx, channel)
}

// Publish writes an event frame to the backend.
func (b *Bridge) Publish(_ context.Context, channel string, payload []byte) error {
	return b.writeFrame(frame{Type: frameTypeEvent, Channel: channel, Payload: payload})
}

// SendMessage issues the send_message command and waits for its result.
// The result only arrives after generation has finished, so streaming
// callers run this concurrently with event consumption.
func (b *Bridge) SendMessage(ctx context.Context, conversationID string, content string) (string, error) {
	payload, err := json.Marshal(sendMessagePayload{
		ConversationID: conversationID,
		Content:        content,
	})
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	id := uuid.NewString()
	resultChan := make(chan invokeResult, 1)

	b.pendingMu.Lock()
	select {
	case <-b.closed:
		b.pendingMu.Unlock()
		return "", backend.ErrClosed
	default:
	}
	b.pending[id] = resultChan
	b.pendingMu.Unlock()

	if err := b.writeFrame(frame{
		Type:    frameTypeInvoke,
		ID:      id,
		Command: sendMessageCommand,
		Payload: payload,
	}); err != nil {
		b.abandonInvoke(id)
		return "", err
	}

	select {
	case result := <-resultChan:
		if result.err != nil {
			return "", result.err
		}
		var responseContent string
		if err := json.Unmarshal(result.payload, &responseContent); err != nil {
			return "", fmt.Errorf("error unmarshalling result: %w", err)
		}
		return responseContent, nil
	case <-ctx.Done():
		b.abandonInvoke(id)
		return "", ctx.Err()
	case <-b.closed:
		return "", backend.ErrClosed
	}
}

// Close shuts the connection down, drops all subscriptions, and fails
// every pending invoke with backend.ErrClosed. Safe to call more than
// once.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		close(b.closed)
		b.conn.Close()
		b.hub.Close()

		b.pendingMu.Lock()
		for id, resultChan := range b.pending {
			resultChan <- invokeResult{err: backend.ErrClosed}
			delete(b.pending, id)
		}
		b.pendingMu.Unlock()
	})
	return nil
}

func (b *Bridge) writeFrame(f frame) error {
	select {
	case <-b.closed:
		return backend.ErrClosed
	default:
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if err := b.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

func (b *Bridge) readLoop() {
	for {
		_, message, err := b.conn.ReadMessage()
		if err != nil {
			select {
			case <-b.closed:
			default:
				logger.Debug("backend bridge read loop ended", "error", err)
			}
			b.Close()
			return
		}

		var f frame
		if err := json.Unmarshal(message, &f); err != nil {
			logger.Debug("dropping unparsable frame", "error", err)
			continue
		}

		switch f.Type {
		case frameTypeEvent:
			if err := b.hub.Publish(context.Background(), f.Channel, f.Payload); err != nil {
				logger.Debug("failed to fan out event frame", "channel", f.Channel, "error", err)
			}
		case frameTypeResult:
			b.resolveInvoke(f.ID, invokeResult{payload: f.Payload})
		case frameTypeError:
			b.resolveInvoke(f.ID, invokeResult{err: fmt.Errorf("backend rejected command: %s", f.Error)})
		default:
			logger.Debug("dropping frame with unknown type", "type", f.Type)
		}
	}
}

func (b *Bridge) resolveInvoke(id string, result invokeResult) {
	b.pendingMu.Lock()
	resultChan, ok := b.pending[id]
	if ok {
		delete(b.pending, id)
	}
	b.pendingMu.Unlock()

	if !ok {
		logger.Debug("dropping result for unknown invoke", "id", id)
		return
	}
	resultChan <- result
}

func (b *Bridge) abandonInvoke(id string) {
	b.pendingMu.Lock()
	delete(b.pending, id)
	b.pendingMu.Unlock()
}
