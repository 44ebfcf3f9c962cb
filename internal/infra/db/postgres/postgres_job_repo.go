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

var _ repository.JobRepository = (*jobRepo)(nil)

type jobRepo struct{ pool *pgxpool.Pool }

func NewJobRepo(pool *pgxpool.Pool) *jobRepo {
	return &jobRepo{pool: pool}
}

const jobCols = `id, client_id, client_name, title, description, category, budget, timeline, location,
  status, posted_at, started_at, completed_at, total_bids, accepted_bid_id, assigned_contractor_id, assigned_contractor_name`

func (r *jobRepo) Create(ctx context.Context, j *model.Job) error {
	const q = `
INSERT INTO jobs (` + jobCols + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17);`

	_, err := execSQL(ctx, r.pool, nil, q,
		j.ID, j.ClientID, j.ClientName, j.Title, j.Description, j.Category, j.Budget, j.Timeline, j.Location,
		j.Status, j.PostedAt, j.StartedAt, j.CompletedAt, j.TotalBids, j.AcceptedBidID, j.AssignedContractorID, j.AssignedContractorName)
	return storeErr("create job", err)
}

func (r *jobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	q := `SELECT ` + jobCols + ` FROM jobs WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func scanJob(row pgx.Row) (*model.Job, error) {
	j := &model.Job{}
	err := row.Scan(&j.ID, &j.ClientID, &j.ClientName, &j.Title, &j.Description, &j.Category, &j.Budget, &j.Timeline, &j.Location,
		&j.Status, &j.PostedAt, &j.StartedAt, &j.CompletedAt, &j.TotalBids, &j.AcceptedBidID, &j.AssignedContractorID, &j.AssignedContractorName)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("scan job", err)
	}
	return j, nil
}

func (r *jobRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Job, error) {
	rows, err := pickRows(ctx, r.pool, nil, q, args...)
	if err != nil {
		return nil, storeErr("query jobs", err)
	}
	defer rows.Close()

	var out []*model.Job
	for rows.Next() {
		j := &model.Job{}
		if err := rows.Scan(&j.ID, &j.ClientID, &j.ClientName, &j.Title, &j.Description, &j.Category, &j.Budget, &j.Timeline, &j.Location,
			&j.Status, &j.PostedAt, &j.StartedAt, &j.CompletedAt, &j.TotalBids, &j.AcceptedBidID, &j.AssignedContractorID, &j.AssignedContractorName); err != nil {
			return nil, storeErr("scan job", err)
		}
		out = append(out, j)
	}
	return out, storeErr("read jobs", rows.Err())
}

func (r *jobRepo) ListOpen(ctx context.Context, category string) ([]*model.Job, error) {
	if category != "" {
		const q = `SELECT ` + jobCols + ` FROM jobs WHERE status='open' AND category=$1 ORDER BY posted_at DESC;`
		return r.list(ctx, q, category)
	}
	const q = `SELECT ` + jobCols + ` FROM jobs WHERE status='open' ORDER BY posted_at DESC;`
	return r.list(ctx, q)
}

func (r *jobRepo) ListByClient(ctx context.Context, clientID string) ([]*model.Job, error) {
	const q = `SELECT ` + jobCols + ` FROM jobs WHERE client_id=$1 ORDER BY posted_at DESC;`
	return r.list(ctx, q, clientID)
}

func (r *jobRepo) ListByContractor(ctx context.Context, contractorID string) ([]*model.Job, error) {
	const q = `SELECT ` + jobCols + ` FROM jobs WHERE assigned_contractor_id=$1 ORDER BY posted_at DESC;`
	return r.list(ctx, q, contractorID)
}

func (r *jobRepo) ListByStatus(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
	const q = `SELECT ` + jobCols + ` FROM jobs WHERE status=$1 ORDER BY posted_at DESC;`
	return r.list(ctx, q, status)
}

func (r *jobRepo) IncrementTotalBids(ctx context.Context, id string) error {
	const q = `UPDATE jobs SET total_bids = total_bids + 1 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q, id)
	if err != nil {
		return storeErr("increment total bids", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) AssignContractor(ctx context.Context, id string, a repository.JobAssignment) error {
	const q = `
UPDATE jobs SET
  assigned_contractor_id=$2, assigned_contractor_name=$3, accepted_bid_id=$4,
  status='in_progress', started_at=$5
WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q, id, a.ContractorID, a.ContractorName, a.BidID, a.StartedAt)
	if err != nil {
		return storeErr("assign contractor", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Complete(ctx context.Context, tx repository.Tx, id string, completedAt time.Time) error {
	const q = `UPDATE jobs SET status='completed', completed_at=$2 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, completedAt)
	if err != nil {
		return storeErr("complete job", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) SetStatus(ctx context.Context, tx repository.Tx, id string, status model.JobStatus) error {
	const q = `UPDATE jobs SET status=$2 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, status)
	if err != nil {
		return storeErr("set job status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
