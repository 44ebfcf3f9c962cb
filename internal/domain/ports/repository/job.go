package repository

import (
	"context"
	"time"

	"buildbid/internal/domain/model"
)

// JobAssignment carries the field set written when a bid is awarded.
type JobAssignment struct {
	ContractorID   string
	ContractorName string
	BidID          string
	StartedAt      time.Time
}

// JobRepository is the port for the job store. List methods return jobs
// ordered by posted date descending.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Job, error)

	ListOpen(ctx context.Context, category string) ([]*model.Job, error)
	ListByClient(ctx context.Context, clientID string) ([]*model.Job, error)
	ListByContractor(ctx context.Context, contractorID string) ([]*model.Job, error)
	ListByStatus(ctx context.Context, status model.JobStatus) ([]*model.Job, error)

	// IncrementTotalBids bumps the bid counter by one. Best-effort callers
	// log a failure and move on.
	IncrementTotalBids(ctx context.Context, id string) error

	// AssignContractor applies the award field set and flips the job to
	// in_progress in a single targeted update.
	AssignContractor(ctx context.Context, id string, a JobAssignment) error

	Complete(ctx context.Context, tx Tx, id string, completedAt time.Time) error
	SetStatus(ctx context.Context, tx Tx, id string, status model.JobStatus) error
}
