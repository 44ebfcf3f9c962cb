package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/adapter"
	"buildbid/internal/domain/ports/repository"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

// NotificationUseCase is the in-app notification center plus the dispatch
// entry point used by the push worker.
type NotificationUseCase interface {
	ListByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, actingUserID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, actingUserID string) error

	// DispatchPending pushes notifications that were stored but never
	// delivered (eg. the inline send failed). Returns the number pushed.
	DispatchPending(ctx context.Context, batch int) (int, error)
}

type notificationUC struct {
	notifs repository.NotificationRepository
	users  repository.UserRepository
	push   adapter.PushAdapter
	log    *zerolog.Logger
}

func NewNotificationUseCase(notifs repository.NotificationRepository, users repository.UserRepository, push adapter.PushAdapter, logger *zerolog.Logger) *notificationUC {
	compLog := logger.With().Str("component", "NotificationUC").Logger()
	return &notificationUC{notifs: notifs, users: users, push: push, log: &compLog}
}

func (n *notificationUC) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	return n.notifs.ListByUser(ctx, userID)
}

func (n *notificationUC) CountUnread(ctx context.Context, userID string) (int, error) {
	return n.notifs.CountUnread(ctx, userID)
}

func (n *notificationUC) MarkRead(ctx context.Context, id, actingUserID string) error {
	notif, err := n.notifs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if notif.UserID != actingUserID {
		return domain.ErrForbidden
	}
	return n.notifs.MarkRead(ctx, id)
}

func (n *notificationUC) MarkAllRead(ctx context.Context, userID string) error {
	return n.notifs.MarkAllRead(ctx, userID)
}

func (n *notificationUC) Delete(ctx context.Context, id, actingUserID string) error {
	notif, err := n.notifs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if notif.UserID != actingUserID {
		return domain.ErrForbidden
	}
	return n.notifs.Delete(ctx, id)
}

func (n *notificationUC) DispatchPending(ctx context.Context, batch int) (int, error) {
	pending, err := n.notifs.ListUnpushed(ctx, batch)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, notif := range pending {
		recipient, err := n.users.FindByID(ctx, repository.NoTX, notif.UserID)
		if err != nil || recipient.DeviceToken == "" {
			// No device to deliver to; mark pushed so the row is not
			// rescanned forever.
			_ = n.notifs.MarkPushed(ctx, notif.ID, time.Now())
			continue
		}
		msg := adapter.PushMessage{
			DeviceToken: recipient.DeviceToken,
			Title:       notif.Title,
			Body:        notif.Message,
			Data:        map[string]string{"type": string(notif.Type), "relatedId": notif.RelatedID},
		}
		if err := n.push.Send(ctx, msg); err != nil {
			n.log.Warn().Err(err).Str("notification_id", notif.ID).Msg("dispatch push failed")
			continue
		}
		if err := n.notifs.MarkPushed(ctx, notif.ID, time.Now()); err != nil {
			n.log.Warn().Err(err).Str("notification_id", notif.ID).Msg("mark pushed failed")
		}
		sent++
	}
	return sent, nil
}
