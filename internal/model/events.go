package model

// Event names used on the turn stream. The terminal events are EventDone and
// EventError; after either one no further events are sent on the channel.
const (
	EventStart = "start"
	EventToken = "token"
	EventDone  = "done"
	EventError = "error"
)

// TurnEvent is one frame of orchestrator output destined for the client's
// event stream.
type TurnEvent struct {
	Name    string
	Payload any
}

// StartPayload acknowledges that a turn was accepted and processing begun.
type StartPayload struct {
	ConversationID string      `json:"conversationId"`
	Type           MessageType `json:"type"`
}

// TokenPayload carries one incremental model-output fragment, in provider order.
type TokenPayload struct {
	Text string `json:"text"`
}

// DonePayload is the terminal frame of a successful turn. Message is nil for
// pure-media turns, which produce no AI reply.
type DonePayload struct {
	ConversationID string   `json:"conversationId"`
	Message        *Message `json:"message"`
	Title          string   `json:"title,omitempty"`
}

// ErrorPayload is the terminal frame of an aborted turn. Detail is a
// best-effort diagnostic string, never a raw credential.
type ErrorPayload struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// TurnResult is the response of the synchronous turn variant.
type TurnResult struct {
	ConversationID string    `json:"conversationId"`
	Title          string    `json:"title,omitempty"`
	Messages       []Message `json:"messages"`
	AIMessage      *Message  `json:"aiMessage"`
}

func (e TurnEvent) Terminal() bool {
	return e.Name == EventDone || e.Name == EventError
}
