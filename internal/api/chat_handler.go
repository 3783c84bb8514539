package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"muse-ai/backend/internal/interfaces"
	"muse-ai/backend/internal/model"
	"muse-ai/backend/internal/service"
)

// ChatHandler exposes the chat turn pipeline and conversation history over
// HTTP.
type ChatHandler struct {
	service interfaces.ChatService
}

func NewChatHandler(svc interfaces.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// HandleChatStream godoc
// @Summary      Submit a chat turn (streaming)
// @Description  Processes one chat turn and streams the AI reply as server-sent events: one start, zero or more token frames, then a terminal done or error frame.
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Param        turn  body  service.TurnRequest  true  "Turn payload"
// @Success      200  {object}  model.DonePayload "Delivered as the terminal done event"
// @Failure      400  {object}  model.ErrorPayload "Delivered as the terminal error event"
// @Security     BearerAuth
// @Router       /v1/chat/stream [post]
func (h *ChatHandler) HandleChatStream(w http.ResponseWriter, r *http.Request) {
	stream, err := newSSEStream(w)
	if err != nil {
		respondWithError(w, err)
		return
	}
	defer stream.Close()

	var req service.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Could not decode chat stream request", "error", err)
		_ = stream.Send(model.EventError, model.ErrorPayload{Message: "Invalid request body"})
		return
	}

	stream.StartKeepAlive(r.Context(), keepAliveInterval)

	// The request context flows into the model call, so a peer disconnect
	// cancels the in-flight upstream request instead of orphaning it.
	events := make(chan model.TurnEvent)
	go h.service.StreamTurn(r.Context(), userIDFrom(r.Context()), &req, events)

	for ev := range events {
		if r.Context().Err() != nil {
			slog.Info("Client disconnected during chat stream.")
			break
		}
		if err := stream.Send(ev.Name, ev.Payload); err != nil {
			slog.Warn("Could not write to chat stream, client likely disconnected.", "error", err)
			break
		}
	}
}

// HandleChat godoc
// @Summary      Submit a chat turn (synchronous)
// @Description  Processes one chat turn and returns the final conversation state in a single response.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        turn  body  service.TurnRequest  true  "Turn payload"
// @Success      200  {object}  model.TurnResult
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req service.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return
	}

	result, err := h.service.CompleteTurn(r.Context(), userIDFrom(r.Context()), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandleListConversations godoc
// @Summary      List conversations
// @Description  Returns the authenticated user's conversations, most recently updated first.
// @Tags         Conversations
// @Produce      json
// @Success      200  {array}  model.ConversationSummary
// @Security     BearerAuth
// @Router       /v1/conversations [get]
func (h *ChatHandler) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListConversations(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summaries)
}

// HandleGetConversation godoc
// @Summary      Get one conversation
// @Description  Returns a conversation with its full message log.
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path  string  true  "Conversation ID"
// @Success      200  {object}  model.Conversation
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/conversations/{conversationID} [get]
func (h *ChatHandler) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.service.GetConversation(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "conversationID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conv)
}

// HandleUpdateTitle godoc
// @Summary      Rename a conversation
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        conversationID  path  string              true  "Conversation ID"
// @Param        title           body  UpdateTitleRequest  true  "New title"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/conversations/{conversationID}/title [put]
func (h *ChatHandler) HandleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.service.RenameConversation(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "conversationID"), req.Title); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleArchiveConversation godoc
// @Summary      Archive a conversation
// @Description  Marks a conversation archived. The message log is retained.
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path  string  true  "Conversation ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/conversations/{conversationID}/archive [post]
func (h *ChatHandler) HandleArchiveConversation(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ArchiveConversation(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "conversationID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
