package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "muse-ai/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures the application router.
func NewRouter(chatHandler *ChatHandler, settingsHandler *SettingsHandler, jwtSecret string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Liveness probe for container orchestration.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		// JSON routes get a request timeout so connections cannot hang
		// indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Post("/chat", chatHandler.HandleChat)

			r.Get("/conversations", chatHandler.HandleListConversations)
			r.Get("/conversations/{conversationID}", chatHandler.HandleGetConversation)
			r.Put("/conversations/{conversationID}/title", chatHandler.HandleUpdateTitle)
			r.Post("/conversations/{conversationID}/archive", chatHandler.HandleArchiveConversation)

			r.Get("/settings", settingsHandler.HandleGetSettings)
			r.Post("/settings", settingsHandler.HandleUpdateSettings)
		})

		// The streaming endpoint holds its connection open for the whole turn
		// and must not run under the timeout middleware.
		r.Group(func(r chi.Router) {
			r.Post("/chat/stream", chatHandler.HandleChatStream)
		})
	})

	return r
}
