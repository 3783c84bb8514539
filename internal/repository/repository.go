package repository

import (
	"context"

	"muse-ai/backend/internal/model"
)

// Repository defines the interface for conversation storage.
// This interface makes it easy to switch database implementations and to mock
// the store in service tests.
type Repository interface {
	// CreateConversation inserts a new conversation document.
	CreateConversation(ctx context.Context, conv *model.Conversation) error

	// GetConversation loads a conversation by id, scoped to its owner. A
	// conversation owned by a different user is indistinguishable from a
	// missing one: both return ErrNotFound.
	GetConversation(ctx context.Context, userID, conversationID string) (*model.Conversation, error)

	// SaveConversation writes back a loaded conversation. The write is
	// conditional on the version the conversation was loaded at; a concurrent
	// save in between returns ErrConflict and persists nothing.
	SaveConversation(ctx context.Context, conv *model.Conversation) error

	// ListConversations returns summaries for all of a user's conversations,
	// most recently updated first.
	ListConversations(ctx context.Context, userID string) ([]model.ConversationSummary, error)

	// UpdateTitle renames a conversation.
	UpdateTitle(ctx context.Context, userID, conversationID, title string) error

	// SetStatus flips a conversation between active and archived.
	SetStatus(ctx context.Context, userID, conversationID, status string) error
}
