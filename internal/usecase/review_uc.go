package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

// Compile-time check
var _ ReviewUseCase = (*reviewUC)(nil)

type SubmitReviewInput struct {
	JobID    string
	ClientID string
	Rating   int
	Comment  string
}

type ReviewUseCase interface {
	// SubmitReview records a client's review of the contractor who completed
	// the job. One review per job.
	SubmitReview(ctx context.Context, in SubmitReviewInput) (*model.Review, error)
	ListByContractor(ctx context.Context, contractorID string) ([]*model.Review, error)
}

type reviewUC struct {
	reviews repository.ReviewRepository
	jobs    repository.JobRepository
	users   repository.UserRepository
	notifs  repository.NotificationRepository
	log     *zerolog.Logger
}

func NewReviewUseCase(reviews repository.ReviewRepository, jobs repository.JobRepository, users repository.UserRepository, notifs repository.NotificationRepository, logger *zerolog.Logger) *reviewUC {
	compLog := logger.With().Str("component", "ReviewUC").Logger()
	return &reviewUC{reviews: reviews, jobs: jobs, users: users, notifs: notifs, log: &compLog}
}

func (u *reviewUC) SubmitReview(ctx context.Context, in SubmitReviewInput) (*model.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be 1..5", domain.ErrInvalidInput)
	}
	job, err := u.jobs.FindByID(ctx, repository.NoTX, in.JobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != in.ClientID {
		return nil, domain.ErrForbidden
	}
	if job.Status != model.JobStatusCompleted || job.AssignedContractorID == nil {
		return nil, domain.ErrInvalidState
	}
	if existing, err := u.reviews.FindByJob(ctx, in.JobID); err == nil && existing != nil {
		return nil, domain.ErrAlreadyReviewed
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	review := &model.Review{
		ID:           ulid.Make().String(),
		JobID:        job.ID,
		ClientID:     job.ClientID,
		ClientName:   job.ClientName,
		ContractorID: *job.AssignedContractorID,
		Rating:       in.Rating,
		Comment:      in.Comment,
		CreatedAt:    time.Now(),
	}
	if err := u.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	// Refresh the contractor's aggregate rating. Display field only, so a
	// failure is logged and the review stands.
	avg, count, err := u.reviews.AverageByContractor(ctx, review.ContractorID)
	if err == nil {
		err = u.users.UpdateRating(ctx, review.ContractorID, avg, count)
	}
	if err != nil {
		u.log.Warn().Err(err).Str("user_id", review.ContractorID).Msg("rating refresh failed")
	}

	// Stored unpushed; the dispatcher delivers it on its next sweep.
	n := &model.Notification{
		ID:        ulid.Make().String(),
		UserID:    review.ContractorID,
		Title:     "New Review",
		Message:   fmt.Sprintf("%s left a %d-star review on %q", job.ClientName, in.Rating, job.Title),
		Type:      model.NotificationTypeNewReview,
		RelatedID: job.ID,
		CreatedAt: time.Now(),
	}
	if err := u.notifs.Create(ctx, n); err != nil {
		u.log.Warn().Err(err).Str("user_id", review.ContractorID).Msg("notification create failed")
	}
	return review, nil
}

func (u *reviewUC) ListByContractor(ctx context.Context, contractorID string) ([]*model.Review, error) {
	return u.reviews.ListByContractor(ctx, contractorID)
}
