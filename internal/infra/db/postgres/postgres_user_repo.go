package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

const userCols = `id, role, full_name, email, phone, location, category, bio,
  rating, review_count, completed_projects, device_token, registered_at, last_active_at`

func (r *userRepo) Save(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (` + userCols + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id) DO UPDATE SET
  full_name=$3, email=$4, phone=$5, location=$6, category=$7, bio=$8,
  device_token=$12, last_active_at=$14;`

	_, err := execSQL(ctx, r.pool, nil, q,
		u.ID, u.Role, u.FullName, u.Email, u.Phone, u.Location, u.Category, u.Bio,
		u.Rating, u.ReviewCount, u.CompletedProjects, u.DeviceToken, u.RegisteredAt, u.LastActiveAt)
	return storeErr("save user", err)
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	u := &model.User{}
	err = row.Scan(&u.ID, &u.Role, &u.FullName, &u.Email, &u.Phone, &u.Location, &u.Category, &u.Bio,
		&u.Rating, &u.ReviewCount, &u.CompletedProjects, &u.DeviceToken, &u.RegisteredAt, &u.LastActiveAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("scan user", err)
	}
	return u, nil
}

func (r *userRepo) ListContractors(ctx context.Context, category string) ([]*model.User, error) {
	q := `SELECT ` + userCols + ` FROM users WHERE role='contractor'`
	args := []interface{}{}
	if category != "" {
		q += ` AND category=$1`
		args = append(args, category)
	}
	q += ` ORDER BY rating DESC, full_name;`

	rows, err := pickRows(ctx, r.pool, nil, q, args...)
	if err != nil {
		return nil, storeErr("query contractors", err)
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u := &model.User{}
		if err := rows.Scan(&u.ID, &u.Role, &u.FullName, &u.Email, &u.Phone, &u.Location, &u.Category, &u.Bio,
			&u.Rating, &u.ReviewCount, &u.CompletedProjects, &u.DeviceToken, &u.RegisteredAt, &u.LastActiveAt); err != nil {
			return nil, storeErr("scan user", err)
		}
		out = append(out, u)
	}
	return out, storeErr("read contractors", rows.Err())
}

func (r *userRepo) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	const q = `UPDATE users SET rating=$2, review_count=$3 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q, id, rating, reviewCount)
	if err != nil {
		return storeErr("update rating", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateCompletedProjects(ctx context.Context, id string, count int) error {
	const q = `UPDATE users SET completed_projects=$2 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q, id, count)
	if err != nil {
		return storeErr("update completed projects", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) SetDeviceToken(ctx context.Context, id, token string) error {
	const q = `UPDATE users SET device_token=$2 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q, id, token)
	if err != nil {
		return storeErr("set device token", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
