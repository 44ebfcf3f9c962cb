package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

var _ repository.MaterialRepository = (*materialRepo)(nil)

type materialRepo struct{ pool *pgxpool.Pool }

func NewMaterialRepo(pool *pgxpool.Pool) *materialRepo {
	return &materialRepo{pool: pool}
}

const materialCols = `id, job_id, job_title, name, category, quantity, unit, unit_price, total_cost,
  supplier, supplier_contact, description, status, low_stock_threshold, added_by, added_at, updated_at`

func (r *materialRepo) Create(ctx context.Context, m *model.Material) error {
	const q = `
INSERT INTO materials (` + materialCols + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17);`
	_, err := execSQL(ctx, r.pool, nil, q,
		m.ID, m.JobID, m.JobTitle, m.Name, m.Category, m.Quantity, m.Unit, m.UnitPrice, m.TotalCost,
		m.Supplier, m.SupplierContact, m.Description, m.Status, m.LowStockThreshold, m.AddedBy, m.AddedAt, m.UpdatedAt)
	return storeErr("create material", err)
}

func (r *materialRepo) scanMaterial(row pgx.Row) (*model.Material, error) {
	m := &model.Material{}
	err := row.Scan(&m.ID, &m.JobID, &m.JobTitle, &m.Name, &m.Category, &m.Quantity, &m.Unit, &m.UnitPrice, &m.TotalCost,
		&m.Supplier, &m.SupplierContact, &m.Description, &m.Status, &m.LowStockThreshold, &m.AddedBy, &m.AddedAt, &m.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("scan material", err)
	}
	return m, nil
}

func (r *materialRepo) FindByID(ctx context.Context, id string) (*model.Material, error) {
	const q = `SELECT ` + materialCols + ` FROM materials WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, nil, q, id)
	if err != nil {
		return nil, err
	}
	return r.scanMaterial(row)
}

func (r *materialRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Material, error) {
	rows, err := pickRows(ctx, r.pool, nil, q, args...)
	if err != nil {
		return nil, storeErr("query materials", err)
	}
	defer rows.Close()

	var out []*model.Material
	for rows.Next() {
		m, err := r.scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, storeErr("read materials", rows.Err())
}

func (r *materialRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Material, error) {
	const q = `SELECT ` + materialCols + ` FROM materials WHERE job_id=$1 ORDER BY id;`
	return r.list(ctx, q, jobID)
}

func (r *materialRepo) ListByJobAndStatus(ctx context.Context, jobID string, status model.MaterialStatus) ([]*model.Material, error) {
	const q = `SELECT ` + materialCols + ` FROM materials WHERE job_id=$1 AND status=$2 ORDER BY id;`
	return r.list(ctx, q, jobID, status)
}

func (r *materialRepo) Update(ctx context.Context, m *model.Material) error {
	const q = `
UPDATE materials SET
  name=$2, category=$3, quantity=$4, unit=$5, unit_price=$6, total_cost=$7,
  supplier=$8, supplier_contact=$9, description=$10, status=$11, low_stock_threshold=$12, updated_at=$13
WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q,
		m.ID, m.Name, m.Category, m.Quantity, m.Unit, m.UnitPrice, m.TotalCost,
		m.Supplier, m.SupplierContact, m.Description, m.Status, m.LowStockThreshold, m.UpdatedAt)
	if err != nil {
		return storeErr("update material", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *materialRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM materials WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, nil, q, id)
	if err != nil {
		return storeErr("delete material", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *materialRepo) TotalCostByJob(ctx context.Context, jobID string) (float64, error) {
	const q = `SELECT COALESCE(SUM(total_cost),0) FROM materials WHERE job_id=$1;`
	row, err := pickRow(ctx, r.pool, nil, q, jobID)
	if err != nil {
		return 0, err
	}
	var total float64
	if err := row.Scan(&total); err != nil {
		return 0, storeErr("scan material aggregate", err)
	}
	return total, nil
}
