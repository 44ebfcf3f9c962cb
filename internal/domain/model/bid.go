package model

import "time"

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
)

func ValidBidStatus(s BidStatus) bool {
	switch s {
	case BidStatusPending, BidStatusAccepted, BidStatusRejected:
		return true
	default:
		return false
	}
}

// Active reports whether the status counts against the one-active-bid-per-
// contractor-per-job rule.
func (s BidStatus) Active() bool {
	return s == BidStatusPending || s == BidStatusAccepted
}

// Bid is a contractor's proposal against an open job.
//
// The contractor display fields (name, category, rating, completed projects)
// are copied from the contractor's profile at submission time so listings do
// not need a profile read per row. Once a bid leaves pending, everything but
// Status is immutable.
type Bid struct {
	ID       string
	JobID    string
	JobTitle string

	ContractorID                string
	ContractorName              string
	ContractorCategory          string
	ContractorRating            float64
	ContractorCompletedProjects int

	Amount         float64 // positive currency amount
	CompletionDays int     // positive
	Proposal       string
	SubmittedAt    time.Time
	Status         BidStatus
}
