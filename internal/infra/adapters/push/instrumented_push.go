package push

import (
	"context"

	"buildbid/internal/domain/ports/adapter"
	"buildbid/internal/infra/metrics"
)

var _ adapter.PushAdapter = (*InstrumentedPush)(nil)

// InstrumentedPush wraps another adapter and counts every delivery attempt
// by result.
type InstrumentedPush struct {
	next adapter.PushAdapter
}

func NewInstrumentedPush(next adapter.PushAdapter) *InstrumentedPush {
	return &InstrumentedPush{next: next}
}

func (p *InstrumentedPush) Send(ctx context.Context, msg adapter.PushMessage) error {
	if msg.DeviceToken == "" {
		metrics.IncNotificationPush("no_device")
		return p.next.Send(ctx, msg)
	}
	if err := p.next.Send(ctx, msg); err != nil {
		metrics.IncNotificationPush("failed")
		return err
	}
	metrics.IncNotificationPush("ok")
	return nil
}
