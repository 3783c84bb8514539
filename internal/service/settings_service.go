package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/redis/go-redis/v9"

	"muse-ai/backend/internal/config"
	"muse-ai/backend/internal/llm"
)

const settingsKey = "settings"

// Settings holds the dynamic application settings stored in Redis.
type Settings struct {
	SystemPrompt string `json:"system_prompt"`
	MainModel    string `json:"main_model"`
	SupportModel string `json:"support_model"`
}

type SettingsService struct {
	rdb *redis.Client
	llm llm.Client
}

func NewSettingsService(rdb *redis.Client, llmClient llm.Client) *SettingsService {
	return &SettingsService{rdb: rdb, llm: llmClient}
}

// InitAndGet returns the stored settings, seeding them from the bootstrap
// config on first run.
func (s *SettingsService) InitAndGet(ctx context.Context, cfg *config.Config) (*Settings, error) {
	val, err := s.rdb.Get(ctx, settingsKey).Result()
	if err == nil {
		var settings Settings
		if err := json.Unmarshal([]byte(val), &settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal existing settings: %w", err)
		}
		return &settings, nil
	}
	if err != redis.Nil {
		return nil, fmt.Errorf("failed to get settings from redis: %w", err)
	}

	slog.Info("No settings found in Redis, seeding from bootstrap config.")
	initial := &Settings{
		SystemPrompt: cfg.InitialSystemPrompt,
		MainModel:    cfg.MainModel,
		SupportModel: cfg.SupportModel,
	}
	if err := s.save(ctx, initial); err != nil {
		return nil, fmt.Errorf("failed to save initial settings: %w", err)
	}
	return initial, nil
}

// Get retrieves the current settings from Redis.
func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	val, err := s.rdb.Get(ctx, settingsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings from redis: %w", err)
	}
	var settings Settings
	if err := json.Unmarshal([]byte(val), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &settings, nil
}

// Save validates the chosen models against the provider's model list when it
// is reachable, then persists the settings. An unreachable provider only
// downgrades the check to a warning.
func (s *SettingsService) Save(ctx context.Context, settings *Settings) error {
	available, err := s.llm.ListModels(ctx)
	if err != nil {
		slog.Warn("Could not list models for validation, saving settings without check", "error", err)
	} else {
		if !slices.Contains(available, settings.MainModel) {
			return fmt.Errorf("main model '%s' is not available", settings.MainModel)
		}
		if !slices.Contains(available, settings.SupportModel) {
			return fmt.Errorf("support model '%s' is not available", settings.SupportModel)
		}
	}
	return s.save(ctx, settings)
}

func (s *SettingsService) save(ctx context.Context, settings *Settings) error {
	val, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return s.rdb.Set(ctx, settingsKey, val, 0).Err()
}
