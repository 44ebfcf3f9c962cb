package model

import "time"

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusOngoing    TaskStatus = "ongoing"
	TaskStatusCompleted  TaskStatus = "completed"
)

func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusOngoing, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// Task is a unit of site work tracked inside an awarded job. Progress is
// measured in a physical unit (sqft, bags, pieces) against an estimate.
type Task struct {
	ID          string
	JobID       string
	JobTitle    string
	Title       string
	Description string

	AssignedTo      string // worker or crew name, free text
	NumberOfWorkers int

	StartDate *time.Time
	EndDate   *time.Time

	Status             TaskStatus
	ProgressUnit       string
	EstimatedQuantity  float64
	CompletedQuantity  float64
	ProgressPercentage float64

	DailyWages float64
	TotalCost  float64

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyProgress records the completed quantity and recomputes the percentage.
// Reaching the estimate completes the task; the percentage is capped at 100.
func (t *Task) ApplyProgress(completedQuantity float64) {
	t.CompletedQuantity = completedQuantity
	if t.EstimatedQuantity <= 0 {
		return
	}
	t.ProgressPercentage = completedQuantity / t.EstimatedQuantity * 100
	if t.ProgressPercentage >= 100 {
		t.ProgressPercentage = 100
		t.Status = TaskStatusCompleted
	} else if t.Status == TaskStatusNotStarted && completedQuantity > 0 {
		t.Status = TaskStatusOngoing
	}
}
