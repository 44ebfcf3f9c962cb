package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

var _ repository.NotificationRepository = (*notificationRepo)(nil)

type notificationRepo struct{ pool *pgxpool.Pool }

func NewNotificationRepo(pool *pgxpool.Pool) *notificationRepo {
	return &notificationRepo{pool: pool}
}

const notifCols = `id, user_id, title, message, type, related_id, read, created_at, pushed_at`

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `
INSERT INTO notifications (` + notifCols + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`
	_, err := execSQL(ctx, r.pool, nil, q,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.RelatedID, n.Read, n.CreatedAt, n.PushedAt)
	return storeErr("create notification", err)
}

func (r *notificationRepo) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	const q = `SELECT ` + notifCols + ` FROM notifications WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, nil, q, id)
	if err != nil {
		return nil, err
	}
	return scanNotification(row)
}

func scanNotification(row pgx.Row) (*model.Notification, error) {
	n := &model.Notification{}
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.RelatedID, &n.Read, &n.CreatedAt, &n.PushedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("scan notification", err)
	}
	return n, nil
}

func (r *notificationRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Notification, error) {
	rows, err := pickRows(ctx, r.pool, nil, q, args...)
	if err != nil {
		return nil, storeErr("query notifications", err)
	}
	defer rows.Close()

	var out []*model.Notification
	for rows.Next() {
		n := &model.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.RelatedID, &n.Read, &n.CreatedAt, &n.PushedAt); err != nil {
			return nil, storeErr("scan notification", err)
		}
		out = append(out, n)
	}
	return out, storeErr("read notifications", rows.Err())
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	const q = `SELECT ` + notifCols + ` FROM notifications WHERE user_id=$1 ORDER BY created_at DESC;`
	return r.list(ctx, q, userID)
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND read=FALSE;`
	row, err := pickRow(ctx, r.pool, nil, q, userID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, storeErr("count unread", err)
	}
	return n, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	const q = `UPDATE notifications SET read=TRUE WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q, id)
	if err != nil {
		return storeErr("mark read", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	const q = `UPDATE notifications SET read=TRUE WHERE user_id=$1 AND read=FALSE;`
	_, err := execSQL(ctx, r.pool, nil, q, userID)
	return storeErr("mark all read", err)
}

func (r *notificationRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM notifications WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q, id)
	if err != nil {
		return storeErr("delete notification", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) ListUnpushed(ctx context.Context, limit int) ([]*model.Notification, error) {
	const q = `SELECT ` + notifCols + ` FROM notifications WHERE pushed_at IS NULL ORDER BY created_at LIMIT $1;`
	return r.list(ctx, q, limit)
}

func (r *notificationRepo) MarkPushed(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE notifications SET pushed_at=$2 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, nil, q, id, at)
	return storeErr("mark pushed", err)
}
