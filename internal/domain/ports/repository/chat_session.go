package repository

import (
	"context"

	"buildbid/internal/domain/model"
)

// ChatSessionRepository holds the short-lived assistant conversation state.
// Backed by the cache layer, not durable storage.
type ChatSessionRepository interface {
	Get(ctx context.Context, userID string) (*model.ChatSession, error)
	Save(ctx context.Context, session *model.ChatSession) error
	Delete(ctx context.Context, userID string) error
}
