package model

import "time"

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// Job is a posted piece of work a client wants done.
//
// AssignedContractorID is set iff the job has left the open state through an
// award (in_progress or completed). AcceptedBidID, when set, references the
// single accepted bid for this job.
type Job struct {
	ID          string
	ClientID    string
	ClientName  string
	Title       string
	Description string
	Category    string
	Budget      float64 // positive currency amount
	Timeline    string  // free text, e.g. "2 weeks"
	Location    string
	Status      JobStatus
	PostedAt    time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	TotalBids   int

	AcceptedBidID          *string
	AssignedContractorID   *string
	AssignedContractorName *string
}

// Open reports whether the job still accepts bids.
func (j *Job) Open() bool { return j.Status == JobStatusOpen }
