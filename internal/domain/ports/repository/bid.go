package repository

import (
	"context"

	"buildbid/internal/domain/model"
)

// BidRepository is the port for the bid store.
type BidRepository interface {
	Create(ctx context.Context, bid *model.Bid) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Bid, error)

	ListByJob(ctx context.Context, jobID string) ([]*model.Bid, error)
	ListByJobAndStatus(ctx context.Context, jobID string, status model.BidStatus) ([]*model.Bid, error)
	ListByContractor(ctx context.Context, contractorID string) ([]*model.Bid, error)

	// FindActiveByJobAndContractor returns the contractor's pending or
	// accepted bid on the job, or ErrNotFound.
	FindActiveByJobAndContractor(ctx context.Context, jobID, contractorID string) (*model.Bid, error)

	UpdateStatus(ctx context.Context, id string, status model.BidStatus) error

	// CountCompletedByContractor counts accepted bids on completed jobs,
	// used for the contractor's completed-projects display field.
	CountCompletedByContractor(ctx context.Context, contractorID string) (int, error)
}
