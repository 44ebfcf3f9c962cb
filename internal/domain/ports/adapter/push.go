package adapter

import "context"

// PushMessage carries one device push.
type PushMessage struct {
	DeviceToken string
	Title       string
	Body        string
	// Data entries ride along for client-side navigation.
	Data map[string]string
}

// PushAdapter delivers device pushes. Delivery is fire-and-forget everywhere
// in the core flows: a failed send is logged and never surfaced to the caller.
type PushAdapter interface {
	Send(ctx context.Context, msg PushMessage) error
}
