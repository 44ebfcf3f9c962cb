package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

var _ repository.TaskRepository = (*taskRepo)(nil)

type taskRepo struct{ pool *pgxpool.Pool }

func NewTaskRepo(pool *pgxpool.Pool) *taskRepo {
	return &taskRepo{pool: pool}
}

const taskCols = `id, job_id, job_title, title, description, assigned_to, number_of_workers,
  start_date, end_date, status, progress_unit, estimated_quantity, completed_quantity,
  progress_percentage, daily_wages, total_cost, created_by, created_at, updated_at`

func (r *taskRepo) Create(ctx context.Context, t *model.Task) error {
	const q = `
INSERT INTO tasks (` + taskCols + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19);`
	_, err := execSQL(ctx, r.pool, nil, q,
		t.ID, t.JobID, t.JobTitle, t.Title, t.Description, t.AssignedTo, t.NumberOfWorkers,
		t.StartDate, t.EndDate, t.Status, t.ProgressUnit, t.EstimatedQuantity, t.CompletedQuantity,
		t.ProgressPercentage, t.DailyWages, t.TotalCost, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	return storeErr("create task", err)
}

func (r *taskRepo) scanTask(row pgx.Row) (*model.Task, error) {
	t := &model.Task{}
	err := row.Scan(&t.ID, &t.JobID, &t.JobTitle, &t.Title, &t.Description, &t.AssignedTo, &t.NumberOfWorkers,
		&t.StartDate, &t.EndDate, &t.Status, &t.ProgressUnit, &t.EstimatedQuantity, &t.CompletedQuantity,
		&t.ProgressPercentage, &t.DailyWages, &t.TotalCost, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("scan task", err)
	}
	return t, nil
}

func (r *taskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	const q = `SELECT ` + taskCols + ` FROM tasks WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, nil, q, id)
	if err != nil {
		return nil, err
	}
	return r.scanTask(row)
}

func (r *taskRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Task, error) {
	rows, err := pickRows(ctx, r.pool, nil, q, args...)
	if err != nil {
		return nil, storeErr("query tasks", err)
	}
	defer rows.Close()

	var out []*model.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, storeErr("read tasks", rows.Err())
}

func (r *taskRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Task, error) {
	const q = `SELECT ` + taskCols + ` FROM tasks WHERE job_id=$1 ORDER BY id;`
	return r.list(ctx, q, jobID)
}

func (r *taskRepo) ListByJobAndStatus(ctx context.Context, jobID string, status model.TaskStatus) ([]*model.Task, error) {
	const q = `SELECT ` + taskCols + ` FROM tasks WHERE job_id=$1 AND status=$2 ORDER BY id;`
	return r.list(ctx, q, jobID, status)
}

func (r *taskRepo) Update(ctx context.Context, t *model.Task) error {
	const q = `
UPDATE tasks SET
  title=$2, description=$3, assigned_to=$4, number_of_workers=$5, start_date=$6, end_date=$7,
  status=$8, progress_unit=$9, estimated_quantity=$10, completed_quantity=$11,
  progress_percentage=$12, daily_wages=$13, total_cost=$14, updated_at=$15
WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q,
		t.ID, t.Title, t.Description, t.AssignedTo, t.NumberOfWorkers, t.StartDate, t.EndDate,
		t.Status, t.ProgressUnit, t.EstimatedQuantity, t.CompletedQuantity,
		t.ProgressPercentage, t.DailyWages, t.TotalCost, t.UpdatedAt)
	if err != nil {
		return storeErr("update task", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM tasks WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q, id)
	if err != nil {
		return storeErr("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
