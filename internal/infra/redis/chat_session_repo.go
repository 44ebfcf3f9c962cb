package redis

import (
	"context"
	"encoding/json"
	"time"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

var _ repository.ChatSessionRepository = (*ChatSessionRepo)(nil)

// ChatSessionRepo keeps assistant conversations in redis with a TTL; losing
// one only resets the assistant's short-term memory.
type ChatSessionRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewChatSessionRepo(client RedisClient, ttl time.Duration) *ChatSessionRepo {
	return &ChatSessionRepo{client: client, ttl: ttl}
}

func sessionKey(userID string) string { return "assistant_session:" + userID }

func (c *ChatSessionRepo) Get(ctx context.Context, userID string) (*model.ChatSession, error) {
	data, err := c.client.Get(ctx, sessionKey(userID))
	if err != nil {
		if IsNil(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var session model.ChatSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *ChatSessionRepo) Save(ctx context.Context, session *model.ChatSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(session.UserID), data, c.ttl)
}

func (c *ChatSessionRepo) Delete(ctx context.Context, userID string) error {
	return c.client.Del(ctx, sessionKey(userID))
}
