package events

import "time"

// Kind identifies an event type. Kind values double as the bus channel
// names the backend publishes on.
type Kind string

type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Correlated is implemented by events bound to a single conversation.
// The coordinator filters on Conversation before dispatching.
type Correlated interface {
	Event
	Conversation() string
}

type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
