package events

const (
	// KindStreamStart identifies the start of generation for a conversation.
	KindStreamStart Kind = "stream-start"
	// KindStreamToken identifies a streamed response text fragment.
	KindStreamToken Kind = "stream-token"
	// KindStreamContext identifies the retrieved sources for a response.
	KindStreamContext Kind = "stream-context"
	// KindStreamEnd identifies terminal stream success.
	KindStreamEnd Kind = "stream-end"
	// KindStreamError identifies terminal stream failure.
	KindStreamError Kind = "stream-error"
)

// StreamKinds returns the five stream channels in subscription order.
func StreamKinds() []Kind {
	return []Kind{KindStreamStart, KindStreamToken, KindStreamContext, KindStreamEnd, KindStreamError}
}

// Source is one retrieved document reference grounding a response.
type Source struct {
	Filename       string
	RelevanceScore float64
}

// StreamStarted marks the beginning of generation for a conversation.
type StreamStarted struct {
	Base
	ConversationID string
}

// NewStreamStarted creates a stream start event.
func NewStreamStarted(conversationID string) StreamStarted {
	return StreamStarted{Base: NewBase(KindStreamStart), ConversationID: conversationID}
}

func (e StreamStarted) Conversation() string { return e.ConversationID }

// StreamToken carries one streamed response text fragment.
type StreamToken struct {
	Base
	ConversationID string
	Token          string
}

// NewStreamToken creates a stream token event.
func NewStreamToken(conversationID, token string) StreamToken {
	return StreamToken{Base: NewBase(KindStreamToken), ConversationID: conversationID, Token: token}
}

func (e StreamToken) Conversation() string { return e.ConversationID }

// StreamContext carries the retrieved sources, ordered by relevance.
type StreamContext struct {
	Base
	ConversationID string
	Sources        []Source
}

// NewStreamContext creates a stream context event.
func NewStreamContext(conversationID string, sources []Source) StreamContext {
	return StreamContext{Base: NewBase(KindStreamContext), ConversationID: conversationID, Sources: sources}
}

func (e StreamContext) Conversation() string { return e.ConversationID }

// StreamEnded marks terminal success and carries the authoritative
// aggregated response text.
type StreamEnded struct {
	Base
	ConversationID string
	Content        string
}

// NewStreamEnded creates a stream end event.
func NewStreamEnded(conversationID, content string) StreamEnded {
	return StreamEnded{Base: NewBase(KindStreamEnd), ConversationID: conversationID, Content: content}
}

func (e StreamEnded) Conversation() string { return e.ConversationID }

// StreamFailed marks terminal failure with a backend-provided description.
type StreamFailed struct {
	Base
	ConversationID string
	Reason         string
}

// NewStreamFailed creates a stream error event.
func NewStreamFailed(conversationID, reason string) StreamFailed {
	return StreamFailed{Base: NewBase(KindStreamError), ConversationID: conversationID, Reason: reason}
}

func (e StreamFailed) Conversation() string { return e.ConversationID }
