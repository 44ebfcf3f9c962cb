package repository

import (
	"context"

	"buildbid/internal/domain/model"
)

// ReviewRepository is the port for contractor reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *model.Review) error
	FindByJob(ctx context.Context, jobID string) (*model.Review, error)
	ListByContractor(ctx context.Context, contractorID string) ([]*model.Review, error)

	// AverageByContractor returns the mean rating and review count.
	AverageByContractor(ctx context.Context, contractorID string) (float64, int, error)
}
