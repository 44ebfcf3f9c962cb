package model

import "time"

// Review is left by a client for a contractor after a job completes.
// One review per job.
type Review struct {
	ID           string
	JobID        string
	ClientID     string
	ClientName   string
	ContractorID string
	Rating       int // 1..5
	Comment      string
	CreatedAt    time.Time
}
