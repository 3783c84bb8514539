package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"muse-ai/backend/internal/api"
	"muse-ai/backend/internal/config"
	"muse-ai/backend/internal/database"
	"muse-ai/backend/internal/llm"
	"muse-ai/backend/internal/repository"
	"muse-ai/backend/internal/service"
	"muse-ai/backend/internal/storage"
	"muse-ai/backend/internal/transcribe"
)

// Run is the composition root. Every client is constructed here and passed
// down explicitly; nothing holds process-global state.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	ctx := context.Background()

	mongoClient, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		return 1
	}
	defer func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		slog.Error("Failed to ensure MongoDB indexes", "error", err)
		return 1
	}
	slog.Info("Successfully connected to MongoDB.", "database", cfg.MongoDB)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		return 1
	}
	slog.Info("Successfully connected to Redis.")

	repo := repository.NewMongoRepository(db)
	llmClient := llm.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
	fetcher := storage.NewHTTPFetcher()
	transcriber := transcribe.NewWhisperClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.TranscribeModel, fetcher)

	settingsService := service.NewSettingsService(rdb, llmClient)
	appSettings, err := settingsService.InitAndGet(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application settings", "error", err)
		return 1
	}
	slog.Info("Loaded application settings", "main_model", appSettings.MainModel, "support_model", appSettings.SupportModel)

	titles := service.NewTitleGenerator(llmClient)
	chatService := service.NewChatService(repo, llmClient, transcriber, titles, settingsService)

	chatHandler := api.NewChatHandler(chatService)
	settingsHandler := api.NewSettingsHandler(settingsService)
	router := api.NewRouter(chatHandler, settingsHandler, cfg.JWTSecret)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	if file := viper.ConfigFileUsed(); file != "" {
		slog.Info("Successfully loaded configuration from file.", "file", file)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
