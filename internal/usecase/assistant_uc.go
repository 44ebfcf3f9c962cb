package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/adapter"
	"buildbid/internal/domain/ports/repository"
)

// Compile-time check
var _ AssistantUseCase = (*assistantUC)(nil)

const assistantSystemPrompt = "You are a helpful assistant inside a home-improvement job marketplace. " +
	"Answer questions about budgeting, hiring contractors, project timelines and bid evaluation. Keep answers short."

// RateLimiter gates per-user assistant calls.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// AssistantUseCase is a thin pass-through to the configured LLM with a small
// rolling history per user. No domain logic lives here.
type AssistantUseCase interface {
	Chat(ctx context.Context, userID, message string) (string, error)
	Reset(ctx context.Context, userID string) error
}

type assistantUC struct {
	sessions        repository.ChatSessionRepository
	ai              adapter.AIServiceAdapter
	limiter         RateLimiter
	model           string
	historyLimit    int
	maxPromptTokens int
	log             *zerolog.Logger
}

func NewAssistantUseCase(sessions repository.ChatSessionRepository, ai adapter.AIServiceAdapter, limiter RateLimiter, modelName string, historyLimit, maxPromptTokens int, logger *zerolog.Logger) *assistantUC {
	compLog := logger.With().Str("component", "AssistantUC").Logger()
	return &assistantUC{sessions: sessions, ai: ai, limiter: limiter, model: modelName, historyLimit: historyLimit, maxPromptTokens: maxPromptTokens, log: &compLog}
}

func (a *assistantUC) Chat(ctx context.Context, userID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}
	if a.limiter != nil {
		ok, err := a.limiter.Allow(ctx, "assistant:"+userID)
		if err != nil {
			a.log.Warn().Err(err).Msg("rate limiter unavailable, allowing call")
		} else if !ok {
			return "", fmt.Errorf("%w: assistant rate limit reached", domain.ErrForbidden)
		}
	}

	session, err := a.sessions.Get(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.log.Warn().Err(err).Msg("session load failed, starting fresh")
	}
	if session == nil {
		session = &model.ChatSession{UserID: userID}
	}

	now := time.Now()
	session.Messages = append(session.Messages, model.ChatMessage{Role: "user", Content: message, Timestamp: now})
	session.Trim(a.historyLimit)

	msgs := make([]adapter.Message, 0, len(session.Messages)+1)
	msgs = append(msgs, adapter.Message{Role: "system", Content: assistantSystemPrompt})
	for _, m := range session.Messages {
		msgs = append(msgs, adapter.Message{Role: m.Role, Content: m.Content})
	}

	// Pre-check the prompt size before paying for a provider call. Counting
	// is best-effort; an unavailable counter never blocks the chat.
	if a.maxPromptTokens > 0 {
		promptTokens, err := a.ai.CountTokens(ctx, a.model, msgs)
		if err != nil {
			a.log.Warn().Err(err).Msg("token count failed, skipping prompt-size check")
		} else if promptTokens > a.maxPromptTokens {
			return "", fmt.Errorf("%w: prompt of %d tokens exceeds the %d token limit", domain.ErrInvalidInput, promptTokens, a.maxPromptTokens)
		}
	}

	reply, err := a.ai.Chat(ctx, a.model, msgs)
	if err != nil {
		return "", err
	}

	session.Messages = append(session.Messages, model.ChatMessage{Role: "assistant", Content: reply, Timestamp: time.Now()})
	session.Trim(a.historyLimit)
	session.UpdatedAt = time.Now()
	if err := a.sessions.Save(ctx, session); err != nil {
		a.log.Warn().Err(err).Msg("session save failed")
	}
	return reply, nil
}

func (a *assistantUC) Reset(ctx context.Context, userID string) error {
	return a.sessions.Delete(ctx, userID)
}
