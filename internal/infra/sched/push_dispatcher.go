package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"buildbid/internal/usecase"
)

// PushDispatcher retries device delivery for notifications that were stored
// but never pushed. Delivery stays best-effort: a row that keeps failing is
// simply picked up again on a later tick.
type PushDispatcher struct {
	interval time.Duration
	batch    int
	notifUC  usecase.NotificationUseCase
	log      *zerolog.Logger
}

func NewPushDispatcher(interval time.Duration, batch int, notifUC usecase.NotificationUseCase, logger *zerolog.Logger) *PushDispatcher {
	compLog := logger.With().Str("component", "PushDispatcher").Logger()
	return &PushDispatcher{interval: interval, batch: batch, notifUC: notifUC, log: &compLog}
}

func (w *PushDispatcher) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting push dispatcher")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping push dispatcher")
			return ctx.Err()
		case <-ticker.C:
			sent, err := w.notifUC.DispatchPending(ctx, w.batch)
			if err != nil {
				w.log.Error().Err(err).Msg("dispatch tick failed")
				continue
			}
			if sent > 0 {
				w.log.Debug().Int("sent", sent).Msg("dispatched pending pushes")
			}
		}
	}
}
