package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

var _ repository.BidRepository = (*bidRepo)(nil)

type bidRepo struct{ pool *pgxpool.Pool }

func NewBidRepo(pool *pgxpool.Pool) *bidRepo {
	return &bidRepo{pool: pool}
}

const bidCols = `id, job_id, job_title, contractor_id, contractor_name, contractor_category,
  contractor_rating, contractor_completed_projects, amount, completion_days, proposal, submitted_at, status`

func (r *bidRepo) Create(ctx context.Context, b *model.Bid) error {
	const q = `
INSERT INTO bids (` + bidCols + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13);`

	_, err := execSQL(ctx, r.pool, nil, q,
		b.ID, b.JobID, b.JobTitle, b.ContractorID, b.ContractorName, b.ContractorCategory,
		b.ContractorRating, b.ContractorCompletedProjects, b.Amount, b.CompletionDays, b.Proposal, b.SubmittedAt, b.Status)
	return storeErr("create bid", err)
}

func (r *bidRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Bid, error) {
	q := `SELECT ` + bidCols + ` FROM bids WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanBid(row)
}

func scanBid(row pgx.Row) (*model.Bid, error) {
	b := &model.Bid{}
	err := row.Scan(&b.ID, &b.JobID, &b.JobTitle, &b.ContractorID, &b.ContractorName, &b.ContractorCategory,
		&b.ContractorRating, &b.ContractorCompletedProjects, &b.Amount, &b.CompletionDays, &b.Proposal, &b.SubmittedAt, &b.Status)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("scan bid", err)
	}
	return b, nil
}

func (r *bidRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Bid, error) {
	rows, err := pickRows(ctx, r.pool, nil, q, args...)
	if err != nil {
		return nil, storeErr("query bids", err)
	}
	defer rows.Close()

	var out []*model.Bid
	for rows.Next() {
		b := &model.Bid{}
		if err := rows.Scan(&b.ID, &b.JobID, &b.JobTitle, &b.ContractorID, &b.ContractorName, &b.ContractorCategory,
			&b.ContractorRating, &b.ContractorCompletedProjects, &b.Amount, &b.CompletionDays, &b.Proposal, &b.SubmittedAt, &b.Status); err != nil {
			return nil, storeErr("scan bid", err)
		}
		out = append(out, b)
	}
	return out, storeErr("read bids", rows.Err())
}

func (r *bidRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Bid, error) {
	const q = `SELECT ` + bidCols + ` FROM bids WHERE job_id=$1 ORDER BY id;`
	return r.list(ctx, q, jobID)
}

func (r *bidRepo) ListByJobAndStatus(ctx context.Context, jobID string, status model.BidStatus) ([]*model.Bid, error) {
	const q = `SELECT ` + bidCols + ` FROM bids WHERE job_id=$1 AND status=$2 ORDER BY id;`
	return r.list(ctx, q, jobID, status)
}

func (r *bidRepo) ListByContractor(ctx context.Context, contractorID string) ([]*model.Bid, error) {
	const q = `SELECT ` + bidCols + ` FROM bids WHERE contractor_id=$1 ORDER BY submitted_at DESC;`
	return r.list(ctx, q, contractorID)
}

func (r *bidRepo) FindActiveByJobAndContractor(ctx context.Context, jobID, contractorID string) (*model.Bid, error) {
	const q = `
SELECT ` + bidCols + ` FROM bids
 WHERE job_id=$1 AND contractor_id=$2 AND status IN ('pending','accepted')
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, nil, q, jobID, contractorID)
	if err != nil {
		return nil, err
	}
	return scanBid(row)
}

func (r *bidRepo) UpdateStatus(ctx context.Context, id string, status model.BidStatus) error {
	const q = `UPDATE bids SET status=$2 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q, id, status)
	if err != nil {
		return storeErr("update bid status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bidRepo) CountCompletedByContractor(ctx context.Context, contractorID string) (int, error) {
	const q = `
SELECT COUNT(*) FROM bids b
  JOIN jobs j ON j.id = b.job_id
 WHERE b.contractor_id=$1 AND b.status='accepted' AND j.status='completed';`
	row, err := pickRow(ctx, r.pool, nil, q, contractorID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, storeErr("count completed bids", err)
	}
	return n, nil
}
