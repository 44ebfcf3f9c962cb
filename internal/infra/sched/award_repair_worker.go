package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
	"buildbid/internal/infra/metrics"
	"buildbid/internal/usecase"
)

// AwardRepairWorker periodically sweeps open jobs for half-applied awards
// (bid accepted, job never assigned) and rolls them forward. This is the
// scheduled face of BidUseCase.RepairAward.
type AwardRepairWorker struct {
	interval time.Duration
	jobs     repository.JobRepository
	bids     repository.BidRepository
	bidUC    usecase.BidUseCase
	log      *zerolog.Logger
}

func NewAwardRepairWorker(interval time.Duration, jobs repository.JobRepository, bids repository.BidRepository, bidUC usecase.BidUseCase, logger *zerolog.Logger) *AwardRepairWorker {
	compLog := logger.With().Str("component", "AwardRepairWorker").Logger()
	return &AwardRepairWorker{interval: interval, jobs: jobs, bids: bids, bidUC: bidUC, log: &compLog}
}

func (w *AwardRepairWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting award repair worker")
	// Run once on startup, then on every tick
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping award repair worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *AwardRepairWorker) sweep(ctx context.Context) {
	open, err := w.jobs.ListByStatus(ctx, model.JobStatusOpen)
	if err != nil {
		w.log.Error().Err(err).Msg("repair sweep failed to list open jobs")
		return
	}
	for _, job := range open {
		accepted, err := w.bids.ListByJobAndStatus(ctx, job.ID, model.BidStatusAccepted)
		if err != nil {
			w.log.Warn().Err(err).Str("job_id", job.ID).Msg("repair sweep bid check failed")
			continue
		}
		if len(accepted) == 0 {
			continue
		}
		if err := w.bidUC.RepairAward(ctx, job.ID); err != nil {
			w.log.Error().Err(err).Str("job_id", job.ID).Msg("award repair failed")
			continue
		}
		metrics.IncAwardRepair()
	}
}
