package repository

import (
	"context"
	"time"

	"buildbid/internal/domain/model"
)

// NotificationRepository is the port for the notification sink. Creation is
// fire-and-forget from the core flows: failures are logged, never propagated.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	FindByID(ctx context.Context, id string) (*model.Notification, error)

	// ListByUser returns notifications newest first.
	ListByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)

	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error

	// ListUnpushed and MarkPushed support the push dispatcher worker.
	ListUnpushed(ctx context.Context, limit int) ([]*model.Notification, error)
	MarkPushed(ctx context.Context, id string, at time.Time) error
}
