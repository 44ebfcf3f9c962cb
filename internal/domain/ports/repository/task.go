package repository

import (
	"context"

	"buildbid/internal/domain/model"
)

// TaskRepository is the port for the per-job task store. List methods return
// tasks ordered by id ascending (creation order).
type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Task, error)
	ListByJobAndStatus(ctx context.Context, jobID string, status model.TaskStatus) ([]*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id string) error
}
