package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"muse-ai/backend/internal/llm"
)

const (
	titleMaxRunes = 50
	titleTimeout  = 10 * time.Second
)

// TitleGenerator derives a short label for a conversation from its first user
// message. The remote call is strictly best-effort: any failure falls back to
// a deterministic local title and is never surfaced to the caller.
type TitleGenerator struct {
	llm llm.Client
}

func NewTitleGenerator(llmClient llm.Client) *TitleGenerator {
	return &TitleGenerator{llm: llmClient}
}

// Generate always returns a non-empty title.
func (g *TitleGenerator) Generate(ctx context.Context, seed, supportModel string) string {
	fallback := FallbackTitle(seed)

	ctx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	temperature := 0.2
	req := &llm.CompletionRequest{
		Model: supportModel,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: "Create a short, clear chat title (max 6 words). No punctuation beyond normal words."},
			{Role: "user", Content: fmt.Sprintf("Create a concise title for this message: %q", seed)},
		},
		Temperature: &temperature,
		MaxTokens:   20,
	}

	out, err := g.llm.Complete(ctx, req)
	if err != nil {
		slog.Warn("Title generation failed, using fallback", "error", err)
		return fallback
	}

	title := strings.Trim(strings.TrimSpace(out), `"'`)
	if title == "" {
		return fallback
	}
	return title
}

// FallbackTitle collapses whitespace in the seed and truncates it to 50 runes.
// The result is deterministic for a given seed and never empty.
func FallbackTitle(seed string) string {
	collapsed := strings.Join(strings.Fields(seed), " ")
	if collapsed == "" {
		return "New chat"
	}
	runes := []rune(collapsed)
	if len(runes) > titleMaxRunes {
		collapsed = strings.TrimSpace(string(runes[:titleMaxRunes]))
	}
	return collapsed
}
