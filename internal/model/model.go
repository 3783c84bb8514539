package model

import "time"

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// MessageType is the discriminator for a message's payload.
type MessageType string

const (
	TypeText  MessageType = "text"
	TypeAudio MessageType = "audio"
	TypeImage MessageType = "image"
	TypeVideo MessageType = "video"
	TypeFile  MessageType = "file"
)

// Valid reports whether t is one of the five recognized message types.
func (t MessageType) Valid() bool {
	switch t {
	case TypeText, TypeAudio, TypeImage, TypeVideo, TypeFile:
		return true
	}
	return false
}

// ContentBearing reports whether messages of this type carry text the model
// can respond to. Pure-media turns never trigger a model call.
func (t MessageType) ContentBearing() bool {
	return t == TypeText || t == TypeAudio
}

// Conversation status values. Archival is a flag, never erasure.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// MediaRef points at an uploaded object in storage. For audio messages the
// raw audio lives behind the ref while Content holds the transcript.
type MediaRef struct {
	URL string `json:"url" bson:"url"`
	Key string `json:"storageKey,omitempty" bson:"storage_key,omitempty"`
}

// Message is a single entry in a conversation's log. Messages are immutable
// once appended. At most one media ref may be set, and it must match Type.
type Message struct {
	ID        string      `json:"id" bson:"id"`
	Sender    Sender      `json:"sender" bson:"sender"`
	Type      MessageType `json:"type" bson:"type"`
	Content   string      `json:"content,omitempty" bson:"content,omitempty"`
	Audio     *MediaRef   `json:"audio,omitempty" bson:"audio,omitempty"`
	Image     *MediaRef   `json:"image,omitempty" bson:"image,omitempty"`
	Video     *MediaRef   `json:"video,omitempty" bson:"video,omitempty"`
	File      *MediaRef   `json:"file,omitempty" bson:"file,omitempty"`
	CreatedAt time.Time   `json:"createdAt" bson:"created_at"`
}

// Conversation is an ordered, append-only message log owned by one user.
// It is stored as a single document with the full message sequence embedded.
// Version backs optimistic locking: a save only succeeds against the version
// it was loaded at, so a concurrent writer surfaces as a conflict instead of
// silently dropping the other writer's messages.
type Conversation struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Messages  []Message `json:"messages" bson:"messages"`
	Status    string    `json:"status" bson:"status"`
	Version   int64     `json:"-" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// FirstUserText returns the content of the earliest user message that has
// non-empty content, or "" if there is none yet. Used as the title seed.
func (c *Conversation) FirstUserText() string {
	for _, m := range c.Messages {
		if m.Sender == SenderUser && m.Content != "" {
			return m.Content
		}
	}
	return ""
}

// ConversationSummary is the list-view projection of a conversation. The full
// message log stays in the document; only the last message travels with the
// summary so the API can derive a preview.
type ConversationSummary struct {
	ID           string    `json:"id" bson:"_id"`
	Title        string    `json:"title,omitempty" bson:"title,omitempty"`
	Status       string    `json:"status" bson:"status"`
	MessageCount int       `json:"messageCount" bson:"message_count"`
	LastMessage  *Message  `json:"lastMessage,omitempty" bson:"last_message,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}
