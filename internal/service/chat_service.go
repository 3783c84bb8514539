package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	app_errors "muse-ai/backend/internal/errors"
	"muse-ai/backend/internal/llm"
	"muse-ai/backend/internal/model"
	"muse-ai/backend/internal/repository"
	"muse-ai/backend/internal/transcribe"
)

// contextWindowSize is the number of trailing messages supplied to the model
// as conversational memory, on top of the system instruction.
const contextWindowSize = 10

// SettingsSource provides the current application settings to a turn.
type SettingsSource interface {
	Get(ctx context.Context) (*Settings, error)
}

// ChatService drives a chat turn end to end: validation, conversation
// resolution, transcription, context-window construction, the streamed model
// call, and the single persistence write at the end of the turn.
type ChatService struct {
	repo        repository.Repository
	llm         llm.Client
	transcriber transcribe.Transcriber
	titles      *TitleGenerator
	settings    SettingsSource
}

func NewChatService(
	repo repository.Repository,
	llmClient llm.Client,
	transcriber transcribe.Transcriber,
	titles *TitleGenerator,
	settings SettingsSource,
) *ChatService {
	return &ChatService{
		repo:        repo,
		llm:         llmClient,
		transcriber: transcriber,
		titles:      titles,
		settings:    settings,
	}
}

// TurnRequest is the client payload for one chat turn. Type discriminates
// which of the optional fields must be populated; populating a field that
// does not match Type is rejected.
type TurnRequest struct {
	ConversationID string            `json:"conversationId,omitempty"`
	Type           model.MessageType `json:"type"`
	Message        string            `json:"message,omitempty"`
	Audio          *model.MediaRef   `json:"audio,omitempty"`
	Image          *model.MediaRef   `json:"image,omitempty"`
	Video          *model.MediaRef   `json:"video,omitempty"`
	File           *model.MediaRef   `json:"file,omitempty"`
}

// StreamTurn executes one turn and emits its events on the given channel,
// closing it after the terminal event. Event order per turn is one start,
// zero or more token frames, then exactly one done or error frame.
func (s *ChatService) StreamTurn(ctx context.Context, userID string, req *TurnRequest, events chan<- model.TurnEvent) {
	defer close(events)

	emit := func(ev model.TurnEvent) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	result, err := s.runTurn(ctx, userID, req, emit)
	if err != nil {
		slog.Warn("Chat turn aborted", "user_id", userID, "error", err)
		emit(model.TurnEvent{Name: model.EventError, Payload: errorPayload(err)})
		return
	}

	emit(model.TurnEvent{Name: model.EventDone, Payload: model.DonePayload{
		ConversationID: result.ConversationID,
		Message:        result.AIMessage,
		Title:          result.Title,
	}})
}

// CompleteTurn is the synchronous variant: the same pipeline without
// incremental delivery, returning the final state in one response.
func (s *ChatService) CompleteTurn(ctx context.Context, userID string, req *TurnRequest) (*model.TurnResult, error) {
	return s.runTurn(ctx, userID, req, func(model.TurnEvent) {})
}

// runTurn is the turn state machine. It emits start and token events through
// emit; terminal events are the caller's responsibility so the synchronous
// variant can reuse the pipeline unchanged.
func (s *ChatService) runTurn(ctx context.Context, userID string, req *TurnRequest, emit func(model.TurnEvent)) (*model.TurnResult, error) {
	if err := validateTurn(userID, req); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not load application settings: %v", app_errors.ErrInternal, err)
	}

	conv, isNew, err := s.resolveConversation(ctx, userID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	emit(model.TurnEvent{Name: model.EventStart, Payload: model.StartPayload{
		ConversationID: conv.ID,
		Type:           req.Type,
	}})

	userMsg, err := s.buildUserMessage(ctx, req)
	if err != nil {
		return nil, err
	}
	conv.Messages = append(conv.Messages, *userMsg)

	// Lazy, best-effort titling from the first user message that has text.
	// A failure inside Generate never aborts the turn.
	if conv.Title == "" {
		if seed := conv.FirstUserText(); seed != "" {
			conv.Title = s.titles.Generate(ctx, seed, settings.SupportModel)
		}
	}

	var aiMsg *model.Message
	if req.Type.ContentBearing() {
		window := buildContextWindow(settings.SystemPrompt, conv.Messages)

		full, err := s.llm.StreamComplete(ctx, &llm.CompletionRequest{
			Model:    settings.MainModel,
			Messages: window,
		}, func(delta string) {
			emit(model.TurnEvent{Name: model.EventToken, Payload: model.TokenPayload{Text: delta}})
		})
		if err != nil {
			// Relayed fragments are already with the client, but the partial
			// output is discarded: nothing from this turn is persisted.
			return nil, fmt.Errorf("%w: %v", app_errors.ErrModel, err)
		}

		aiMsg = &model.Message{
			ID:        uuid.NewString(),
			Sender:    model.SenderAI,
			Type:      model.TypeText,
			Content:   full,
			CreatedAt: time.Now().UTC(),
		}
		conv.Messages = append(conv.Messages, *aiMsg)
	}

	if err := s.persist(ctx, conv, isNew); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: conversation %s", app_errors.ErrConflict, conv.ID)
		}
		if aiMsg != nil {
			// The response was fully generated and delivered; only the write
			// failed. Surfaced distinctly so the client knows it holds text
			// the store does not.
			return nil, fmt.Errorf("%w: %v", app_errors.ErrNotPersisted, err)
		}
		return nil, fmt.Errorf("%w: could not save conversation: %v", app_errors.ErrInternal, err)
	}

	return &model.TurnResult{
		ConversationID: conv.ID,
		Title:          conv.Title,
		Messages:       conv.Messages,
		AIMessage:      aiMsg,
	}, nil
}

// validateTurn fails fast in a fixed order: message type, actor, then the
// type-specific field. Media fields inconsistent with the declared type are
// rejected rather than silently ignored.
func validateTurn(userID string, req *TurnRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("%w: invalid message type %q", app_errors.ErrValidation, req.Type)
	}
	if userID == "" {
		return fmt.Errorf("%w: user not authenticated", app_errors.ErrPermission)
	}

	refs := map[model.MessageType]*model.MediaRef{
		model.TypeAudio: req.Audio,
		model.TypeImage: req.Image,
		model.TypeVideo: req.Video,
		model.TypeFile:  req.File,
	}

	if req.Type == model.TypeText {
		if req.Message == "" {
			return fmt.Errorf("%w: text message required", app_errors.ErrValidation)
		}
	} else {
		ref := refs[req.Type]
		if ref == nil || ref.URL == "" {
			return fmt.Errorf("%w: %s url required", app_errors.ErrValidation, req.Type)
		}
		if req.Message != "" {
			return fmt.Errorf("%w: message text not allowed for %s turns", app_errors.ErrValidation, req.Type)
		}
	}
	for t, ref := range refs {
		if t != req.Type && ref != nil {
			return fmt.Errorf("%w: %s reference not allowed for %s turns", app_errors.ErrValidation, t, req.Type)
		}
	}
	return nil
}

// resolveConversation loads an existing conversation scoped to its owner, or
// constructs a fresh one. Construction performs no write; the conversation is
// only persisted at the end of a successful turn.
func (s *ChatService) resolveConversation(ctx context.Context, userID, conversationID string) (*model.Conversation, bool, error) {
	if conversationID != "" {
		conv, err := s.repo.GetConversation(ctx, userID, conversationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, false, fmt.Errorf("%w: conversation %s", app_errors.ErrNotFound, conversationID)
			}
			return nil, false, fmt.Errorf("%w: could not load conversation: %v", app_errors.ErrInternal, err)
		}
		return conv, false, nil
	}

	now := time.Now().UTC()
	return &model.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    model.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

// buildUserMessage assembles the turn's user message. Audio turns are
// transcribed first; the transcript becomes the message content while the
// media ref keeps pointing at the raw audio.
func (s *ChatService) buildUserMessage(ctx context.Context, req *TurnRequest) (*model.Message, error) {
	msg := &model.Message{
		ID:        uuid.NewString(),
		Sender:    model.SenderUser,
		Type:      req.Type,
		CreatedAt: time.Now().UTC(),
	}

	switch req.Type {
	case model.TypeText:
		msg.Content = req.Message
	case model.TypeAudio:
		transcript, err := s.transcriber.Transcribe(ctx, *req.Audio)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", app_errors.ErrTranscription, err)
		}
		msg.Content = transcript
		msg.Audio = req.Audio
	case model.TypeImage:
		msg.Image = req.Image
	case model.TypeVideo:
		msg.Video = req.Video
	case model.TypeFile:
		msg.File = req.File
	}
	return msg, nil
}

func (s *ChatService) persist(ctx context.Context, conv *model.Conversation, isNew bool) error {
	conv.UpdatedAt = time.Now().UTC()
	if isNew {
		return s.repo.CreateConversation(ctx, conv)
	}
	return s.repo.SaveConversation(ctx, conv)
}

// buildContextWindow maps the most recent messages to model roles. The window
// is the fixed system instruction plus the trailing contextWindowSize
// messages; entries without content (pure-media messages) are dropped. It is
// recomputed on every turn and never cached.
func buildContextWindow(systemPrompt string, messages []model.Message) []llm.ChatMessage {
	window := []llm.ChatMessage{{Role: "system", Content: systemPrompt}}

	start := 0
	if len(messages) > contextWindowSize {
		start = len(messages) - contextWindowSize
	}
	for _, m := range messages[start:] {
		if m.Content == "" {
			continue
		}
		role := "assistant"
		if m.Sender == model.SenderUser {
			role = "user"
		}
		window = append(window, llm.ChatMessage{Role: role, Content: m.Content})
	}
	return window
}

// errorPayload converts a turn failure into the wire-level error frame: a
// human-readable message plus the diagnostic detail carried by the error.
func errorPayload(err error) model.ErrorPayload {
	message := "An unexpected error occurred"
	switch {
	case errors.Is(err, app_errors.ErrValidation):
		message = "Invalid chat request"
	case errors.Is(err, app_errors.ErrPermission):
		message = "User not authenticated"
	case errors.Is(err, app_errors.ErrNotFound):
		message = "Conversation not found"
	case errors.Is(err, app_errors.ErrConflict):
		message = "Conversation was modified by another request"
	case errors.Is(err, app_errors.ErrTranscription):
		message = "Audio transcription failed"
	case errors.Is(err, app_errors.ErrModel):
		message = "AI stream failed"
	case errors.Is(err, app_errors.ErrNotPersisted):
		message = "AI response was generated but could not be saved"
	}
	return model.ErrorPayload{Message: message, Detail: err.Error()}
}

// ListConversations returns the user's conversations, newest activity first.
// Conversations that were never titled get a preview-derived label.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]model.ConversationSummary, error) {
	summaries, err := s.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list conversations: %w", err)
	}
	for i := range summaries {
		if summaries[i].Title == "" && summaries[i].LastMessage != nil {
			summaries[i].Title = FallbackTitle(summaries[i].LastMessage.Content)
		}
	}
	return summaries, nil
}

// GetConversation fetches one conversation with its full message log.
func (s *ChatService) GetConversation(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, userID, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: conversation %s", app_errors.ErrNotFound, conversationID)
		}
		return nil, fmt.Errorf("could not get conversation: %w", err)
	}
	return conv, nil
}

// RenameConversation sets a conversation's title manually.
func (s *ChatService) RenameConversation(ctx context.Context, userID, conversationID, title string) error {
	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", app_errors.ErrValidation)
	}
	return s.translateRepoErr(s.repo.UpdateTitle(ctx, userID, conversationID, title), conversationID)
}

// ArchiveConversation flags a conversation archived. Nothing is deleted.
func (s *ChatService) ArchiveConversation(ctx context.Context, userID, conversationID string) error {
	return s.translateRepoErr(s.repo.SetStatus(ctx, userID, conversationID, model.StatusArchived), conversationID)
}

func (s *ChatService) translateRepoErr(err error, conversationID string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: conversation %s", app_errors.ErrNotFound, conversationID)
	}
	return err
}
