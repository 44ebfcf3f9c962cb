package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

// Compile-time check
var _ JobUseCase = (*jobUC)(nil)

// PostJobInput carries a client's job posting.
type PostJobInput struct {
	ClientID    string
	Title       string
	Description string
	Category    string
	Budget      float64
	Timeline    string
	Location    string
}

type JobUseCase interface {
	PostJob(ctx context.Context, in PostJobInput) (*model.Job, error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
	ListOpen(ctx context.Context, category string) ([]*model.Job, error)
	ListByClient(ctx context.Context, clientID string) ([]*model.Job, error)
	ListByContractor(ctx context.Context, contractorID string) ([]*model.Job, error)
	ListByStatus(ctx context.Context, status model.JobStatus) ([]*model.Job, error)
	CompleteJob(ctx context.Context, jobID, actingUserID string) error
	CancelJob(ctx context.Context, jobID, actingUserID string) error
}

type jobUC struct {
	jobs   repository.JobRepository
	users  repository.UserRepository
	bids   repository.BidRepository
	notifs repository.NotificationRepository
	txm    repository.TransactionManager
	log    *zerolog.Logger
}

func NewJobUseCase(jobs repository.JobRepository, users repository.UserRepository, bids repository.BidRepository, notifs repository.NotificationRepository, txm repository.TransactionManager, logger *zerolog.Logger) *jobUC {
	compLog := logger.With().Str("component", "JobUC").Logger()
	return &jobUC{jobs: jobs, users: users, bids: bids, notifs: notifs, txm: txm, log: &compLog}
}

// guarded runs fn inside a read-committed transaction when a manager is
// configured, so the status check and the write see the same row. With no
// manager (tests, tooling) fn runs against the plain pool.
func (u *jobUC) guarded(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if u.txm == nil {
		return fn(ctx, repository.NoTX)
	}
	return u.txm.WithTx(ctx, pgx.TxOptions{}, fn)
}

func (u *jobUC) PostJob(ctx context.Context, in PostJobInput) (*model.Job, error) {
	if in.Title == "" || in.Category == "" {
		return nil, fmt.Errorf("%w: title and category are required", domain.ErrInvalidInput)
	}
	if in.Budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive", domain.ErrInvalidInput)
	}
	client, err := u.users.FindByID(ctx, repository.NoTX, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client.Role != model.UserRoleClient {
		return nil, domain.ErrForbidden
	}

	job := &model.Job{
		ID:          uuid.NewString(),
		ClientID:    client.ID,
		ClientName:  client.FullName,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Budget:      in.Budget,
		Timeline:    in.Timeline,
		Location:    in.Location,
		Status:      model.JobStatusOpen,
		PostedAt:    time.Now(),
		TotalBids:   0,
	}
	if err := u.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *jobUC) GetJob(ctx context.Context, id string) (*model.Job, error) {
	return u.jobs.FindByID(ctx, repository.NoTX, id)
}

func (u *jobUC) ListOpen(ctx context.Context, category string) ([]*model.Job, error) {
	return u.jobs.ListOpen(ctx, category)
}

func (u *jobUC) ListByClient(ctx context.Context, clientID string) ([]*model.Job, error) {
	return u.jobs.ListByClient(ctx, clientID)
}

func (u *jobUC) ListByContractor(ctx context.Context, contractorID string) ([]*model.Job, error) {
	return u.jobs.ListByContractor(ctx, contractorID)
}

func (u *jobUC) ListByStatus(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
	if !model.ValidJobStatus(status) {
		return nil, fmt.Errorf("%w: unknown job status %q", domain.ErrInvalidInput, status)
	}
	return u.jobs.ListByStatus(ctx, status)
}

// CompleteJob flips an in_progress job to completed, refreshes the assigned
// contractor's completed-project count and drops them a notification. Both
// follow-ups are best-effort, outside the guard transaction.
func (u *jobUC) CompleteJob(ctx context.Context, jobID, actingUserID string) error {
	var contractorID, jobTitle string
	err := u.guarded(ctx, func(ctx context.Context, tx repository.Tx) error {
		job, err := u.jobs.FindByID(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if job.ClientID != actingUserID {
			return domain.ErrForbidden
		}
		if job.Status != model.JobStatusInProgress {
			return domain.ErrInvalidState
		}
		if job.AssignedContractorID != nil {
			contractorID = *job.AssignedContractorID
		}
		jobTitle = job.Title
		return u.jobs.Complete(ctx, tx, jobID, time.Now())
	})
	if err != nil {
		return err
	}

	if contractorID != "" {
		count, err := u.bids.CountCompletedByContractor(ctx, contractorID)
		if err == nil {
			err = u.users.UpdateCompletedProjects(ctx, contractorID, count)
		}
		if err != nil {
			u.log.Warn().Err(err).Str("user_id", contractorID).Msg("completed-project refresh failed")
		}
		// Stored unpushed; the dispatcher delivers it on its next sweep.
		n := &model.Notification{
			ID:        ulid.Make().String(),
			UserID:    contractorID,
			Title:     "Job Completed",
			Message:   fmt.Sprintf("The client marked %q as completed", jobTitle),
			Type:      model.NotificationTypeJobCompleted,
			RelatedID: jobID,
			CreatedAt: time.Now(),
		}
		if err := u.notifs.Create(ctx, n); err != nil {
			u.log.Warn().Err(err).Str("user_id", contractorID).Msg("notification create failed")
		}
	}
	return nil
}

// CancelJob withdraws an open job. Pending bids are left untouched; they can
// no longer transition because every bid operation re-checks job status.
func (u *jobUC) CancelJob(ctx context.Context, jobID, actingUserID string) error {
	return u.guarded(ctx, func(ctx context.Context, tx repository.Tx) error {
		job, err := u.jobs.FindByID(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if job.ClientID != actingUserID {
			return domain.ErrForbidden
		}
		if !job.Open() {
			return domain.ErrJobClosed
		}
		return u.jobs.SetStatus(ctx, tx, jobID, model.JobStatusCancelled)
	})
}
