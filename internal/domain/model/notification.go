package model

import "time"

type NotificationType string

const (
	NotificationTypeNewBid       NotificationType = "new_bid"
	NotificationTypeBidAccepted  NotificationType = "bid_accepted"
	NotificationTypeBidRejected  NotificationType = "bid_rejected"
	NotificationTypeJobCompleted NotificationType = "job_completed"
	NotificationTypeNewReview    NotificationType = "new_review"
)

// Notification is an in-app inbox entry. RelatedID points back at the job it
// concerns so the client can navigate to it. Push delivery is tracked by
// PushedAt and is strictly best-effort.
type Notification struct {
	ID        string
	UserID    string // recipient
	Title     string
	Message   string
	Type      NotificationType
	RelatedID string
	Read      bool
	CreatedAt time.Time
	PushedAt  *time.Time
}
