package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

var _ repository.ReviewRepository = (*reviewRepo)(nil)

type reviewRepo struct{ pool *pgxpool.Pool }

func NewReviewRepo(pool *pgxpool.Pool) *reviewRepo {
	return &reviewRepo{pool: pool}
}

const reviewCols = `id, job_id, client_id, client_name, contractor_id, rating, comment, created_at`

func (r *reviewRepo) Create(ctx context.Context, rev *model.Review) error {
	const q = `
INSERT INTO reviews (` + reviewCols + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`
	_, err := execSQL(ctx, r.pool, nil, q,
		rev.ID, rev.JobID, rev.ClientID, rev.ClientName, rev.ContractorID, rev.Rating, rev.Comment, rev.CreatedAt)
	return storeErr("create review", err)
}

func (r *reviewRepo) FindByJob(ctx context.Context, jobID string) (*model.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews WHERE job_id=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, nil, q, jobID)
	if err != nil {
		return nil, err
	}
	rev := &model.Review{}
	err = row.Scan(&rev.ID, &rev.JobID, &rev.ClientID, &rev.ClientName, &rev.ContractorID, &rev.Rating, &rev.Comment, &rev.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("scan review", err)
	}
	return rev, nil
}

func (r *reviewRepo) ListByContractor(ctx context.Context, contractorID string) ([]*model.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews WHERE contractor_id=$1 ORDER BY created_at DESC;`
	rows, err := pickRows(ctx, r.pool, nil, q, contractorID)
	if err != nil {
		return nil, storeErr("query reviews", err)
	}
	defer rows.Close()

	var out []*model.Review
	for rows.Next() {
		rev := &model.Review{}
		if err := rows.Scan(&rev.ID, &rev.JobID, &rev.ClientID, &rev.ClientName, &rev.ContractorID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, storeErr("scan review", err)
		}
		out = append(out, rev)
	}
	return out, storeErr("read reviews", rows.Err())
}

func (r *reviewRepo) AverageByContractor(ctx context.Context, contractorID string) (float64, int, error) {
	const q = `SELECT COALESCE(AVG(rating),0), COUNT(*) FROM reviews WHERE contractor_id=$1;`
	row, err := pickRow(ctx, r.pool, nil, q, contractorID)
	if err != nil {
		return 0, 0, err
	}
	var avg float64
	var count int
	if err := row.Scan(&avg, &count); err != nil {
		return 0, 0, storeErr("scan review aggregate", err)
	}
	return avg, count, nil
}
