package push

import (
	"context"
	"sync"

	"buildbid/internal/domain/ports/adapter"
)

var _ adapter.PushAdapter = (*NoopPush)(nil)

// NoopPush records messages in memory; used in dev and tests.
type NoopPush struct {
	mu   sync.Mutex
	sent []adapter.PushMessage
}

func NewNoopPush() *NoopPush {
	return &NoopPush{}
}

func (n *NoopPush) Name() string { return "noop" }

func (n *NoopPush) Send(ctx context.Context, msg adapter.PushMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (n *NoopPush) Sent() []adapter.PushMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]adapter.PushMessage, len(n.sent))
	copy(out, n.sent)
	return out
}
