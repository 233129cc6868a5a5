// Package conversations keeps the client-side message history that
// accumulates while streams run. Persistence belongs to the backend; this
// log only mirrors what the client has sent and received in-process.
package conversations

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minekb/minekb-core/core/events"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in a conversation's history. Sources carries the
// retrieval provenance for assistant messages; it is nil otherwise.
type Message struct {
	ID             string
	ConversationID string
	Role           Role
	Content        string
	Sources        []events.Source
	CreatedAt      time.Time
}

// NewConversationID mints a fresh correlation key. Identity values must
// be unique per in-flight request; the bus filter is the only thing
// keeping concurrent streams apart.
func NewConversationID() string {
	return uuid.NewString()
}

// Log is an ordered, in-memory message history per conversation.
type Log struct {
	mu       sync.RWMutex
	messages map[string][]Message
}

func NewLog() *Log {
	return &Log{messages: map[string][]Message{}}
}

// Append records a message at the end of a conversation's history and
// returns the stored entry.
func (l *Log) Append(conversationID string, role Role, content string, sources []events.Source) Message {
	message := Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Sources:        sources,
		CreatedAt:      time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages[conversationID] = append(l.messages[conversationID], message)
	return message
}

// Snapshot returns a point-in-time copy of one conversation's history,
// oldest first. Mutating the copy does not affect the log.
func (l *Log) Snapshot(conversationID string) []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := make([]Message, len(l.messages[conversationID]))
	copy(history, l.messages[conversationID])
	return history
}

// LastAssistant returns the most recent assistant message of a
// conversation, if any.
func (l *Log) LastAssistant(conversationID string) (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := l.messages[conversationID]
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleAssistant {
			return history[i], true
		}
	}
	return Message{}, false
}
