package interfaces

import (
	"context"

	"muse-ai/backend/internal/model"
	"muse-ai/backend/internal/service"
)

// This file defines the contracts the API layer consumes. Handlers depend on
// these interfaces instead of the concrete services, which keeps the HTTP
// layer mockable in tests.

// ChatService is the contract for the chat turn pipeline and conversation
// history operations.
type ChatService interface {
	StreamTurn(ctx context.Context, userID string, req *service.TurnRequest, events chan<- model.TurnEvent)
	CompleteTurn(ctx context.Context, userID string, req *service.TurnRequest) (*model.TurnResult, error)
	ListConversations(ctx context.Context, userID string) ([]model.ConversationSummary, error)
	GetConversation(ctx context.Context, userID, conversationID string) (*model.Conversation, error)
	RenameConversation(ctx context.Context, userID, conversationID, title string) error
	ArchiveConversation(ctx context.Context, userID, conversationID string) error
}

// SettingsService is the contract for reading and updating application
// settings.
type SettingsService interface {
	Get(ctx context.Context) (*service.Settings, error)
	Save(ctx context.Context, settings *service.Settings) error
}
