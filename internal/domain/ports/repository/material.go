package repository

import (
	"context"

	"buildbid/internal/domain/model"
)

// MaterialRepository is the port for the per-job material inventory. List
// methods return materials ordered by id ascending (insertion order).
type MaterialRepository interface {
	Create(ctx context.Context, m *model.Material) error
	FindByID(ctx context.Context, id string) (*model.Material, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Material, error)
	ListByJobAndStatus(ctx context.Context, jobID string, status model.MaterialStatus) ([]*model.Material, error)
	Update(ctx context.Context, m *model.Material) error
	Delete(ctx context.Context, id string) error

	// TotalCostByJob sums the inventory value of every material on the job.
	TotalCostByJob(ctx context.Context, jobID string) (float64, error)
}
