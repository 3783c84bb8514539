package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "muse-ai/backend/internal/errors"
	"muse-ai/backend/internal/llm"
	mock_llm "muse-ai/backend/internal/llm/mocks"
	"muse-ai/backend/internal/model"
	"muse-ai/backend/internal/repository"
	mock_repo "muse-ai/backend/internal/repository/mocks"
	"muse-ai/backend/internal/service"
	mock_transcribe "muse-ai/backend/internal/transcribe/mocks"
)

type stubSettings struct {
	settings *service.Settings
	err      error
}

func (s stubSettings) Get(ctx context.Context) (*service.Settings, error) {
	return s.settings, s.err
}

type Mocks struct {
	repo        *mock_repo.MockRepository
	llm         *mock_llm.MockClient
	transcriber *mock_transcribe.MockTranscriber
}

func setupChatService(t *testing.T) (*service.ChatService, Mocks) {
	mocks := Mocks{
		repo:        mock_repo.NewMockRepository(t),
		llm:         mock_llm.NewMockClient(t),
		transcriber: mock_transcribe.NewMockTranscriber(t),
	}

	settings := stubSettings{settings: &service.Settings{
		SystemPrompt: "You are Merlin AI.",
		MainModel:    "main-model",
		SupportModel: "support-model",
	}}

	titles := service.NewTitleGenerator(mocks.llm)
	chatService := service.NewChatService(mocks.repo, mocks.llm, mocks.transcriber, titles, settings)

	return chatService, mocks
}

// collectEvents runs a streamed turn to completion and returns every emitted
// event in order.
func collectEvents(svc *service.ChatService, userID string, req *service.TurnRequest) []model.TurnEvent {
	events := make(chan model.TurnEvent, 64)
	svc.StreamTurn(context.Background(), userID, req, events)

	var got []model.TurnEvent
	for ev := range events {
		got = append(got, ev)
	}
	return got
}

func eventNames(events []model.TurnEvent) []string {
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Name
	}
	return names
}

func TestStreamTurn_TextHappyPath(t *testing.T) {
	chatService, mocks := setupChatService(t)

	// Title generation for a fresh conversation.
	mocks.llm.On("Complete", mock.Anything, mock.Anything).Return("Greeting", nil).Once()

	mocks.llm.On("StreamComplete", mock.Anything, mock.Anything, mock.Anything).
		Return("Hi there!", nil).
		Run(func(args mock.Arguments) {
			onDelta := args.Get(2).(func(string))
			onDelta("Hi ")
			onDelta("there!")
		}).Once()

	var saved *model.Conversation
	mocks.repo.On("CreateConversation", mock.Anything, mock.AnythingOfType("*model.Conversation")).
		Return(nil).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*model.Conversation)
		}).Once()

	events := collectEvents(chatService, "user-1", &service.TurnRequest{
		Type:    model.TypeText,
		Message: "Hello",
	})

	require.Equal(t, []string{"start", "token", "token", "done"}, eventNames(events))

	start := events[0].Payload.(model.StartPayload)
	assert.NotEmpty(t, start.ConversationID)
	assert.Equal(t, model.TypeText, start.Type)

	assert.Equal(t, "Hi ", events[1].Payload.(model.TokenPayload).Text)
	assert.Equal(t, "there!", events[2].Payload.(model.TokenPayload).Text)

	done := events[3].Payload.(model.DonePayload)
	assert.Equal(t, start.ConversationID, done.ConversationID)
	assert.Equal(t, "Greeting", done.Title)
	require.NotNil(t, done.Message)
	assert.Equal(t, model.SenderAI, done.Message.Sender)
	assert.Equal(t, "Hi there!", done.Message.Content)

	require.NotNil(t, saved)
	require.Len(t, saved.Messages, 2)
	assert.Equal(t, model.SenderUser, saved.Messages[0].Sender)
	assert.Equal(t, "Hello", saved.Messages[0].Content)
	assert.Equal(t, model.SenderAI, saved.Messages[1].Sender)
	assert.Equal(t, model.StatusActive, saved.Status)
	assert.Equal(t, "user-1", saved.UserID)
}

func TestStreamTurn_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		user string
		req  *service.TurnRequest
	}{
		{"Unknown type", "user-1", &service.TurnRequest{Type: "gif"}},
		{"Missing actor", "", &service.TurnRequest{Type: model.TypeText, Message: "hi"}},
		{"Text without message", "user-1", &service.TurnRequest{Type: model.TypeText}},
		{"Audio without url", "user-1", &service.TurnRequest{Type: model.TypeAudio, Audio: &model.MediaRef{}}},
		{"Image missing entirely", "user-1", &service.TurnRequest{Type: model.TypeImage}},
		{"Mismatched media field", "user-1", &service.TurnRequest{
			Type:    model.TypeText,
			Message: "hi",
			Audio:   &model.MediaRef{URL: "https://cdn.example.com/a.mp3"},
		}},
		{"Text alongside media turn", "user-1", &service.TurnRequest{
			Type:    model.TypeImage,
			Message: "surprise",
			Image:   &model.MediaRef{URL: "https://cdn.example.com/i.jpg"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chatService, _ := setupChatService(t)

			// No repository, transcription or model expectations: a
			// precondition failure must have no side effects.
			events := collectEvents(chatService, tc.user, tc.req)

			require.Equal(t, []string{"error"}, eventNames(events))
			assert.NotEmpty(t, events[0].Payload.(model.ErrorPayload).Message)
		})
	}
}

func TestStreamTurn_ConversationNotFound(t *testing.T) {
	chatService, mocks := setupChatService(t)

	mocks.repo.On("GetConversation", mock.Anything, "user-1", "conv-9").
		Return(nil, repository.ErrNotFound).Once()

	events := collectEvents(chatService, "user-1", &service.TurnRequest{
		ConversationID: "conv-9",
		Type:           model.TypeText,
		Message:        "hi",
	})

	require.Equal(t, []string{"error"}, eventNames(events))
	assert.Equal(t, "Conversation not found", events[0].Payload.(model.ErrorPayload).Message)
}

func TestStreamTurn_AudioTurn(t *testing.T) {
	audioRef := &model.MediaRef{URL: "https://cdn.example.com/ai/audio/a.wav", Key: "ai/audio/a.wav"}

	t.Run("Success - transcript becomes the user message content", func(t *testing.T) {
		chatService, mocks := setupChatService(t)

		mocks.transcriber.On("Transcribe", mock.Anything, *audioRef).
			Return("what time is it", nil).Once()
		mocks.llm.On("Complete", mock.Anything, mock.Anything).Return("Time Question", nil).Once()
		mocks.llm.On("StreamComplete", mock.Anything, mock.Anything, mock.Anything).
			Return("It is noon.", nil).Once()

		var saved *model.Conversation
		mocks.repo.On("CreateConversation", mock.Anything, mock.Anything).
			Return(nil).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Conversation) }).Once()

		events := collectEvents(chatService, "user-1", &service.TurnRequest{
			Type:  model.TypeAudio,
			Audio: audioRef,
		})

		require.Equal(t, "done", events[len(events)-1].Name)
		require.NotNil(t, saved)
		require.Len(t, saved.Messages, 2)
		assert.Equal(t, "what time is it", saved.Messages[0].Content)
		assert.Equal(t, model.TypeAudio, saved.Messages[0].Type)
		require.NotNil(t, saved.Messages[0].Audio)
		assert.Equal(t, audioRef.URL, saved.Messages[0].Audio.URL)
	})

	t.Run("Failure - transcription error persists nothing", func(t *testing.T) {
		chatService, mocks := setupChatService(t)

		mocks.transcriber.On("Transcribe", mock.Anything, *audioRef).
			Return("", errors.New("whisper api returned status 500")).Once()

		events := collectEvents(chatService, "user-1", &service.TurnRequest{
			Type:  model.TypeAudio,
			Audio: audioRef,
		})

		require.Equal(t, []string{"start", "error"}, eventNames(events))
		errPayload := events[1].Payload.(model.ErrorPayload)
		assert.Equal(t, "Audio transcription failed", errPayload.Message)
		assert.Contains(t, errPayload.Detail, "whisper api")
	})
}

func TestStreamTurn_PureMediaTurn(t *testing.T) {
	chatService, mocks := setupChatService(t)

	// No model interaction of any kind: neither a completion nor a title
	// (there is no text to seed one from).
	var saved *model.Conversation
	mocks.repo.On("CreateConversation", mock.Anything, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Conversation) }).Once()

	events := collectEvents(chatService, "user-1", &service.TurnRequest{
		Type:  model.TypeImage,
		Image: &model.MediaRef{URL: "https://cdn.example.com/i.jpg", Key: "ai/images/i.jpg"},
	})

	require.Equal(t, []string{"start", "done"}, eventNames(events))
	done := events[1].Payload.(model.DonePayload)
	assert.Nil(t, done.Message)
	assert.Empty(t, done.Title)

	require.NotNil(t, saved)
	require.Len(t, saved.Messages, 1)
	assert.Empty(t, saved.Messages[0].Content)
	require.NotNil(t, saved.Messages[0].Image)
}

func TestStreamTurn_ModelStreamFailure(t *testing.T) {
	chatService, mocks := setupChatService(t)

	existing := &model.Conversation{
		ID:     "conv-1",
		UserID: "user-1",
		Title:  "Existing chat",
		Status: model.StatusActive,
		Messages: []model.Message{
			{ID: "m1", Sender: model.SenderUser, Type: model.TypeText, Content: "earlier"},
		},
		Version: 3,
	}
	mocks.repo.On("GetConversation", mock.Anything, "user-1", "conv-1").
		Return(existing, nil).Once()

	mocks.llm.On("StreamComplete", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("stream transport failed: connection reset")).
		Run(func(args mock.Arguments) {
			onDelta := args.Get(2).(func(string))
			onDelta("partial ")
		}).Once()

	events := collectEvents(chatService, "user-1", &service.TurnRequest{
		ConversationID: "conv-1",
		Type:           model.TypeText,
		Message:        "continue",
	})

	// The client saw some output, then a terminal error; nothing was saved.
	require.Equal(t, []string{"start", "token", "error"}, eventNames(events))
	assert.Equal(t, "AI stream failed", events[2].Payload.(model.ErrorPayload).Message)
}

func TestStreamTurn_TitleSetAtMostOnce(t *testing.T) {
	chatService, mocks := setupChatService(t)

	existing := &model.Conversation{
		ID:     "conv-1",
		UserID: "user-1",
		Title:  "Handpicked title",
		Status: model.StatusActive,
		Messages: []model.Message{
			{ID: "m1", Sender: model.SenderUser, Type: model.TypeText, Content: "earlier"},
		},
	}
	mocks.repo.On("GetConversation", mock.Anything, "user-1", "conv-1").
		Return(existing, nil).Once()

	// No Complete expectation: a titled conversation never re-generates.
	mocks.llm.On("StreamComplete", mock.Anything, mock.Anything, mock.Anything).
		Return("ok", nil).Once()

	var saved *model.Conversation
	mocks.repo.On("SaveConversation", mock.Anything, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Conversation) }).Once()

	events := collectEvents(chatService, "user-1", &service.TurnRequest{
		ConversationID: "conv-1",
		Type:           model.TypeText,
		Message:        "next",
	})

	require.Equal(t, "done", events[len(events)-1].Name)
	require.NotNil(t, saved)
	assert.Equal(t, "Handpicked title", saved.Title)
}

func TestStreamTurn_ContextWindow(t *testing.T) {
	chatService, mocks := setupChatService(t)

	// 12 prior messages, some without content; the window must be the system
	// entry plus the last 10 messages with empties dropped.
	var history []model.Message
	for i := 0; i < 11; i++ {
		sender := model.SenderUser
		if i%2 == 1 {
			sender = model.SenderAI
		}
		history = append(history, model.Message{
			ID:      fmt.Sprintf("m%d", i),
			Sender:  sender,
			Type:    model.TypeText,
			Content: fmt.Sprintf("message %d", i),
		})
	}
	history = append(history, model.Message{
		ID:     "m-img",
		Sender: model.SenderUser,
		Type:   model.TypeImage,
		Image:  &model.MediaRef{URL: "https://cdn.example.com/i.jpg"},
	})

	existing := &model.Conversation{
		ID:       "conv-1",
		UserID:   "user-1",
		Title:    "Long chat",
		Status:   model.StatusActive,
		Messages: history,
	}
	mocks.repo.On("GetConversation", mock.Anything, "user-1", "conv-1").
		Return(existing, nil).Once()

	var capturedReq *llm.CompletionRequest
	mocks.llm.On("StreamComplete", mock.Anything, mock.Anything, mock.Anything).
		Return("reply", nil).
		Run(func(args mock.Arguments) {
			capturedReq = args.Get(1).(*llm.CompletionRequest)
		}).Once()
	mocks.repo.On("SaveConversation", mock.Anything, mock.Anything).Return(nil).Once()

	events := collectEvents(chatService, "user-1", &service.TurnRequest{
		ConversationID: "conv-1",
		Type:           model.TypeText,
		Message:        "newest",
	})
	require.Equal(t, "done", events[len(events)-1].Name)

	require.NotNil(t, capturedReq)
	assert.Equal(t, "main-model", capturedReq.Model)

	msgs := capturedReq.Messages
	require.NotEmpty(t, msgs)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "You are Merlin AI.", msgs[0].Content)

	// 13 messages total; window covers the last 10 of them, one of which is
	// the content-less image message and gets dropped: 9 entries + system.
	assert.Len(t, msgs, 10)
	for _, m := range msgs {
		assert.NotEmpty(t, m.Content)
	}
	assert.Equal(t, "user", msgs[len(msgs)-1].Role)
	assert.Equal(t, "newest", msgs[len(msgs)-1].Content)
}

func TestStreamTurn_SaveFailures(t *testing.T) {
	newTurn := &service.TurnRequest{Type: model.TypeText, Message: "hi"}

	t.Run("Conflict is surfaced", func(t *testing.T) {
		chatService, mocks := setupChatService(t)

		existing := &model.Conversation{
			ID: "conv-1", UserID: "user-1", Title: "t", Status: model.StatusActive,
			Messages: []model.Message{{ID: "m1", Sender: model.SenderUser, Type: model.TypeText, Content: "x"}},
		}
		mocks.repo.On("GetConversation", mock.Anything, "user-1", "conv-1").Return(existing, nil).Once()
		mocks.llm.On("StreamComplete", mock.Anything, mock.Anything, mock.Anything).Return("reply", nil).Once()
		mocks.repo.On("SaveConversation", mock.Anything, mock.Anything).Return(repository.ErrConflict).Once()

		events := collectEvents(chatService, "user-1", &service.TurnRequest{
			ConversationID: "conv-1", Type: model.TypeText, Message: "hi",
		})

		last := events[len(events)-1]
		require.Equal(t, "error", last.Name)
		assert.Equal(t, "Conversation was modified by another request", last.Payload.(model.ErrorPayload).Message)
	})

	t.Run("Write failure after delivered response is distinct", func(t *testing.T) {
		chatService, mocks := setupChatService(t)

		mocks.llm.On("Complete", mock.Anything, mock.Anything).Return("Title", nil).Once()
		mocks.llm.On("StreamComplete", mock.Anything, mock.Anything, mock.Anything).Return("reply", nil).Once()
		mocks.repo.On("CreateConversation", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		events := collectEvents(chatService, "user-1", newTurn)

		last := events[len(events)-1]
		require.Equal(t, "error", last.Name)
		payload := last.Payload.(model.ErrorPayload)
		assert.Equal(t, "AI response was generated but could not be saved", payload.Message)
		assert.Contains(t, payload.Detail, "disk full")
	})
}

func TestCompleteTurn(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		chatService, mocks := setupChatService(t)

		mocks.llm.On("Complete", mock.Anything, mock.Anything).Return("Title", nil).Once()
		mocks.llm.On("StreamComplete", mock.Anything, mock.Anything, mock.Anything).Return("Hi!", nil).Once()
		mocks.repo.On("CreateConversation", mock.Anything, mock.Anything).Return(nil).Once()

		result, err := chatService.CompleteTurn(context.Background(), "user-1", &service.TurnRequest{
			Type: model.TypeText, Message: "Hello",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.ConversationID)
		assert.Equal(t, "Title", result.Title)
		require.Len(t, result.Messages, 2)
		require.NotNil(t, result.AIMessage)
		assert.Equal(t, "Hi!", result.AIMessage.Content)
	})

	t.Run("Validation error maps to ErrValidation", func(t *testing.T) {
		chatService, _ := setupChatService(t)

		_, err := chatService.CompleteTurn(context.Background(), "user-1", &service.TurnRequest{Type: "bogus"})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}

func TestListConversations(t *testing.T) {
	chatService, mocks := setupChatService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	mocks.repo.On("ListConversations", ctx, "user-1").Return([]model.ConversationSummary{
		{ID: "c1", Title: "Named", MessageCount: 4, UpdatedAt: now},
		{ID: "c2", MessageCount: 1, LastMessage: &model.Message{Content: "  untitled   preview text "}},
	}, nil).Once()

	summaries, err := chatService.ListConversations(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Named", summaries[0].Title)
	assert.Equal(t, "untitled preview text", summaries[1].Title)
}

func TestRenameConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty title rejected", func(t *testing.T) {
		chatService, _ := setupChatService(t)
		err := chatService.RenameConversation(ctx, "user-1", "conv-1", "")
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Unknown conversation maps to ErrNotFound", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("UpdateTitle", ctx, "user-1", "conv-1", "New").Return(repository.ErrNotFound).Once()

		err := chatService.RenameConversation(ctx, "user-1", "conv-1", "New")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("UpdateTitle", ctx, "user-1", "conv-1", "New").Return(nil).Once()

		assert.NoError(t, chatService.RenameConversation(ctx, "user-1", "conv-1", "New"))
	})
}

func TestArchiveConversation(t *testing.T) {
	chatService, mocks := setupChatService(t)
	ctx := context.Background()

	mocks.repo.On("SetStatus", ctx, "user-1", "conv-1", model.StatusArchived).Return(nil).Once()

	assert.NoError(t, chatService.ArchiveConversation(ctx, "user-1", "conv-1"))
}
