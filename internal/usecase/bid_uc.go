package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/adapter"
	"buildbid/internal/domain/ports/repository"
	"buildbid/internal/format"
)

// Compile-time check
var _ BidUseCase = (*bidUC)(nil)

// BidSort selects the ordering of a bid listing.
type BidSort string

const (
	BidSortLowest  BidSort = "lowest"  // ascending amount (default)
	BidSortHighest BidSort = "highest" // descending amount
	BidSortRecent  BidSort = "recent"  // newest first
)

// SubmitBidInput carries a contractor's bid submission.
type SubmitBidInput struct {
	JobID          string
	ContractorID   string
	Amount         float64
	CompletionDays int // 0 means the default of 30 days
	Proposal       string
	TermsAccepted  bool
}

// BidUseCase is the bid lifecycle engine: it owns the rules for submitting,
// accepting and rejecting bids and the job transitions those actions trigger.
//
// None of its operations support mid-flight cancellation: a caller that
// abandons the context does not revoke writes already issued.
type BidUseCase interface {
	SubmitBid(ctx context.Context, in SubmitBidInput) (*model.Bid, error)
	ListBids(ctx context.Context, jobID string, sortOrder BidSort) ([]*model.Bid, error)
	ListByContractor(ctx context.Context, contractorID string) ([]*model.Bid, error)
	AcceptBid(ctx context.Context, jobID, bidID, actingUserID string) error
	RejectBid(ctx context.Context, bidID, actingUserID string) error

	// RepairAward rolls a half-applied award forward: a job left open with an
	// accepted bid gets the assignment update re-applied.
	RepairAward(ctx context.Context, jobID string) error

	// JobWithBids reloads the post-acceptance state for display.
	JobWithBids(ctx context.Context, jobID string) (*model.Job, []*model.Bid, error)
}

// FanoutRunner executes independent best-effort tasks, typically on a small
// worker pool. A nil runner makes the usecase run tasks inline.
type FanoutRunner interface {
	Submit(task func(ctx context.Context) error) error
}

type bidUC struct {
	jobs   repository.JobRepository
	bids   repository.BidRepository
	users  repository.UserRepository
	notifs repository.NotificationRepository
	push   adapter.PushAdapter
	runner FanoutRunner
	log    *zerolog.Logger
}

func NewBidUseCase(
	jobs repository.JobRepository,
	bids repository.BidRepository,
	users repository.UserRepository,
	notifs repository.NotificationRepository,
	push adapter.PushAdapter,
	runner FanoutRunner,
	logger *zerolog.Logger,
) *bidUC {
	compLog := logger.With().Str("component", "BidUC").Logger()
	return &bidUC{jobs: jobs, bids: bids, users: users, notifs: notifs, push: push, runner: runner, log: &compLog}
}

// SubmitBid validates and creates a pending bid. Validation is checked in
// order, first failure wins. The job-open check runs twice: once up front as
// an advisory read and again immediately before the bid is written, because
// the job may close between form display and submission.
//
// The totalBids increment and the client notification are best-effort side
// effects: their failure is logged and never fails the submission.
func (u *bidUC) SubmitBid(ctx context.Context, in SubmitBidInput) (*model.Bid, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: bid amount must be positive", domain.ErrInvalidInput)
	}
	if !in.TermsAccepted {
		return nil, fmt.Errorf("%w: terms must be accepted", domain.ErrInvalidInput)
	}
	days := in.CompletionDays
	if days == 0 {
		days = 30
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: completion days must be positive", domain.ErrInvalidInput)
	}

	// Advisory read: existence and a first open check.
	job, err := u.jobs.FindByID(ctx, repository.NoTX, in.JobID)
	if err != nil {
		return nil, err
	}
	if !job.Open() {
		return nil, domain.ErrJobClosed
	}

	if existing, err := u.bids.FindActiveByJobAndContractor(ctx, in.JobID, in.ContractorID); err == nil && existing != nil {
		return nil, domain.ErrDuplicateBid
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	contractor, err := u.users.FindByID(ctx, repository.NoTX, in.ContractorID)
	if err != nil {
		return nil, err
	}

	// Authoritative open check, immediately before the write. The advisory
	// read above may be arbitrarily stale.
	job, err = u.jobs.FindByID(ctx, repository.NoTX, in.JobID)
	if err != nil {
		return nil, err
	}
	if !job.Open() {
		return nil, domain.ErrJobClosed
	}

	bid := &model.Bid{
		ID:                          ulid.Make().String(),
		JobID:                       job.ID,
		JobTitle:                    job.Title,
		ContractorID:                contractor.ID,
		ContractorName:              contractor.FullName,
		ContractorCategory:          contractor.Category,
		ContractorRating:            contractor.Rating,
		ContractorCompletedProjects: contractor.CompletedProjects,
		Amount:                      in.Amount,
		CompletionDays:              days,
		Proposal:                    in.Proposal,
		SubmittedAt:                 time.Now(),
		Status:                      model.BidStatusPending,
	}
	if err := u.bids.Create(ctx, bid); err != nil {
		return nil, err
	}

	if err := u.jobs.IncrementTotalBids(ctx, job.ID); err != nil {
		u.log.Warn().Err(err).Str("job_id", job.ID).Msg("totalBids increment failed, bid stands")
	}
	u.notify(ctx, &model.Notification{
		UserID:    job.ClientID,
		Title:     "New Bid Received",
		Message:   fmt.Sprintf("%s submitted a bid of Rs. %s on your job %q", contractor.FullName, format.Currency(bid.Amount), job.Title),
		Type:      model.NotificationTypeNewBid,
		RelatedID: job.ID,
	})

	return bid, nil
}

// ListBids is a pure read-and-sort; ties keep insertion order (stable sort).
func (u *bidUC) ListBids(ctx context.Context, jobID string, sortOrder BidSort) ([]*model.Bid, error) {
	bids, err := u.bids.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	sortBids(bids, sortOrder)
	return bids, nil
}

func (u *bidUC) ListByContractor(ctx context.Context, contractorID string) ([]*model.Bid, error) {
	bids, err := u.bids.ListByContractor(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	sortBids(bids, BidSortRecent)
	return bids, nil
}

func sortBids(bids []*model.Bid, sortOrder BidSort) {
	switch sortOrder {
	case BidSortHighest:
		sort.SliceStable(bids, func(i, j int) bool { return bids[i].Amount > bids[j].Amount })
	case BidSortRecent:
		sort.SliceStable(bids, func(i, j int) bool { return bids[i].SubmittedAt.After(bids[j].SubmittedAt) })
	default: // BidSortLowest
		sort.SliceStable(bids, func(i, j int) bool { return bids[i].Amount < bids[j].Amount })
	}
}

// AcceptBid awards the job to one pending bid. The effect is an ordered,
// non-transactional sequence; each step commits independently:
//
//  1. the target bid becomes accepted (written first so the job is never
//     in_progress while referencing a non-accepted bid);
//  2. every other pending bid for the job is rejected, each independently
//     and best-effort;
//  3. the job is assigned and flipped to in_progress;
//  4. the winning contractor is notified, best-effort.
//
// A step-3 failure after step 1 leaves an accepted bid against a still-open
// job. That state is logged with the failed step and repaired forward by
// RepairAward; it is never compensated backwards.
func (u *bidUC) AcceptBid(ctx context.Context, jobID, bidID, actingUserID string) error {
	job, err := u.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return err
	}
	if actingUserID == "" || job.ClientID != actingUserID {
		return domain.ErrForbidden
	}

	bid, err := u.bids.FindByID(ctx, repository.NoTX, bidID)
	if err != nil {
		return err
	}
	if bid.JobID != jobID || bid.Status != model.BidStatusPending {
		return domain.ErrInvalidState
	}
	if !job.Open() {
		return domain.ErrJobClosed
	}

	// Re-read right before the write sequence. This narrows the window for a
	// concurrent close or competing accept; there is no server-side guard
	// beyond this check (last write wins).
	job, err = u.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return err
	}
	if !job.Open() {
		return domain.ErrJobClosed
	}

	// Step 1: accept the target bid.
	if err := u.bids.UpdateStatus(ctx, bid.ID, model.BidStatusAccepted); err != nil {
		return err
	}

	// Step 2: reject competitors. Each rejection stands alone; one failing
	// blocks neither the rest nor the award.
	u.rejectCompetitors(ctx, jobID, bid.ID)

	// Step 3: assign the contractor and start the job.
	assignment := repository.JobAssignment{
		ContractorID:   bid.ContractorID,
		ContractorName: bid.ContractorName,
		BidID:          bid.ID,
		StartedAt:      time.Now(),
	}
	if err := u.jobs.AssignContractor(ctx, jobID, assignment); err != nil {
		u.log.Error().Err(err).
			Str("job_id", jobID).Str("bid_id", bid.ID).Str("failed_step", "assign_contractor").
			Msg("award left inconsistent: bid accepted but job not assigned")
		return err
	}

	// Step 4: tell the winner.
	u.notify(ctx, &model.Notification{
		UserID:    bid.ContractorID,
		Title:     "Bid Accepted",
		Message:   fmt.Sprintf("Your bid of Rs. %s on %q was accepted", format.Currency(bid.Amount), job.Title),
		Type:      model.NotificationTypeBidAccepted,
		RelatedID: jobID,
	})
	return nil
}

func (u *bidUC) rejectCompetitors(ctx context.Context, jobID, acceptedBidID string) {
	pending, err := u.bids.ListByJobAndStatus(ctx, jobID, model.BidStatusPending)
	if err != nil {
		u.log.Warn().Err(err).Str("job_id", jobID).Msg("listing competing bids failed, skipping fan-out")
		return
	}
	for _, other := range pending {
		if other.ID == acceptedBidID {
			continue
		}
		id, contractorID, jobTitle := other.ID, other.ContractorID, other.JobTitle
		task := func(ctx context.Context) error {
			if err := u.bids.UpdateStatus(ctx, id, model.BidStatusRejected); err != nil {
				u.log.Warn().Err(err).Str("bid_id", id).Msg("competing bid rejection failed")
				return err
			}
			u.notify(ctx, &model.Notification{
				UserID:    contractorID,
				Title:     "Bid Not Selected",
				Message:   fmt.Sprintf("Your bid on %q was not selected", jobTitle),
				Type:      model.NotificationTypeBidRejected,
				RelatedID: jobID,
			})
			return nil
		}
		if u.runner != nil {
			if err := u.runner.Submit(task); err != nil {
				_ = task(ctx)
			}
			continue
		}
		_ = task(ctx)
	}
}

// RejectBid is the client's manual rejection of a single pending bid.
// It has no cascading effect on the job. A second call on the same bid
// fails with ErrInvalidState and leaves the first rejection intact.
func (u *bidUC) RejectBid(ctx context.Context, bidID, actingUserID string) error {
	bid, err := u.bids.FindByID(ctx, repository.NoTX, bidID)
	if err != nil {
		return err
	}
	job, err := u.jobs.FindByID(ctx, repository.NoTX, bid.JobID)
	if err != nil {
		return err
	}
	if actingUserID == "" || job.ClientID != actingUserID {
		return domain.ErrForbidden
	}
	if bid.Status != model.BidStatusPending {
		return domain.ErrInvalidState
	}
	if err := u.bids.UpdateStatus(ctx, bidID, model.BidStatusRejected); err != nil {
		return err
	}
	u.notify(ctx, &model.Notification{
		UserID:    bid.ContractorID,
		Title:     "Bid Rejected",
		Message:   fmt.Sprintf("Your bid on %q was rejected", job.Title),
		Type:      model.NotificationTypeBidRejected,
		RelatedID: job.ID,
	})
	return nil
}

func (u *bidUC) RepairAward(ctx context.Context, jobID string) error {
	job, err := u.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return err
	}
	if !job.Open() {
		return nil // nothing to repair
	}
	accepted, err := u.bids.ListByJobAndStatus(ctx, jobID, model.BidStatusAccepted)
	if err != nil {
		return err
	}
	if len(accepted) == 0 {
		return nil
	}
	winner := accepted[0]
	if len(accepted) > 1 {
		// Concurrent double-accept slipped through the status re-check.
		// Earliest accepted bid (lowest ULID) wins, the rest are demoted.
		u.log.Warn().Str("job_id", jobID).Int("accepted", len(accepted)).Msg("multiple accepted bids found during repair")
		for _, loser := range accepted[1:] {
			if err := u.bids.UpdateStatus(ctx, loser.ID, model.BidStatusRejected); err != nil {
				u.log.Warn().Err(err).Str("bid_id", loser.ID).Msg("demoting extra accepted bid failed")
			}
		}
	}
	u.log.Info().Str("job_id", jobID).Str("bid_id", winner.ID).Msg("repairing half-applied award")

	u.rejectCompetitors(ctx, jobID, winner.ID)
	return u.jobs.AssignContractor(ctx, jobID, repository.JobAssignment{
		ContractorID:   winner.ContractorID,
		ContractorName: winner.ContractorName,
		BidID:          winner.ID,
		StartedAt:      time.Now(),
	})
}

func (u *bidUC) JobWithBids(ctx context.Context, jobID string) (*model.Job, []*model.Bid, error) {
	job, err := u.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, nil, err
	}
	bids, err := u.bids.ListByJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	sortBids(bids, BidSortLowest)
	return job, bids, nil
}

// notify stores an in-app notification and pushes it to the recipient's
// device when one is registered. Both halves are best-effort.
func (u *bidUC) notify(ctx context.Context, n *model.Notification) {
	n.ID = ulid.Make().String()
	n.CreatedAt = time.Now()
	if err := u.notifs.Create(ctx, n); err != nil {
		u.log.Warn().Err(err).Str("user_id", n.UserID).Msg("notification create failed")
		return
	}
	if u.push == nil {
		return
	}
	recipient, err := u.users.FindByID(ctx, repository.NoTX, n.UserID)
	if err != nil || recipient.DeviceToken == "" {
		return
	}
	msg := adapter.PushMessage{
		DeviceToken: recipient.DeviceToken,
		Title:       n.Title,
		Body:        n.Message,
		Data:        map[string]string{"type": string(n.Type), "relatedId": n.RelatedID},
	}
	if err := u.push.Send(ctx, msg); err != nil {
		u.log.Warn().Err(err).Str("user_id", n.UserID).Msg("push send failed")
		return
	}
	if err := u.notifs.MarkPushed(ctx, n.ID, time.Now()); err != nil {
		u.log.Warn().Err(err).Str("notification_id", n.ID).Msg("mark pushed failed")
	}
}
