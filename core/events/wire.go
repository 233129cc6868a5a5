package events

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
)

// Wire payload shapes, one per channel. The backend serializes these as
// JSON; Decode turns them back into typed events. stream-start has no
// struct: its payload is the bare conversation id string.

type TokenPayload struct {
	ConversationID string `json:"conversation_id"`
	Token          string `json:"token"`
}

type ContextPayload struct {
	ConversationID string      `json:"conversation_id"`
	Sources        []SourceRef `json:"sources"`
}

type SourceRef struct {
	Filename       string  `json:"filename"`
	RelevanceScore float64 `json:"relevance_score"`
}

type EndPayload struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

type ErrorPayload struct {
	ConversationID string `json:"conversation_id"`
	Error          string `json:"error"`
}

type StartupPayload struct {
	Step       int    `json:"step"`
	TotalSteps int    `json:"total_steps"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	Details    string `json:"details,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Decode parses a raw bus payload into the typed event for the given
// channel. It returns an error for unknown channels and undecodable
// payloads; callers decide whether that is noise or a fault.
func Decode(channel string, payload []byte) (Event, error) {
	switch Kind(channel) {
	case KindStreamStart:
		var conversationID string
		if err := json.Unmarshal(payload, &conversationID); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", channel, err)
		}
		return NewStreamStarted(conversationID), nil

	case KindStreamToken:
		var p TokenPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", channel, err)
		}
		return NewStreamToken(p.ConversationID, p.Token), nil

	case KindStreamContext:
		var p ContextPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", channel, err)
		}
		var sources []Source
		if err := copier.Copy(&sources, p.Sources); err != nil {
			return nil, fmt.Errorf("failed to copy %s sources: %w", channel, err)
		}
		return NewStreamContext(p.ConversationID, sources), nil

	case KindStreamEnd:
		var p EndPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", channel, err)
		}
		return NewStreamEnded(p.ConversationID, p.Content), nil

	case KindStreamError:
		var p ErrorPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", channel, err)
		}
		return NewStreamFailed(p.ConversationID, p.Error), nil

	case KindStartupProgress:
		var p StartupPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", channel, err)
		}
		event := NewStartupProgress(p.Step, p.TotalSteps, p.Message, StartupStatus(p.Status))
		event.Details = p.Details
		event.Err = p.Error
		return event, nil
	}

	return nil, fmt.Errorf("unknown channel %q", channel)
}
