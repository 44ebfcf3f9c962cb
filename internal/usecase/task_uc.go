package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

// Compile-time check
var _ TaskUseCase = (*taskUC)(nil)

type AddTaskInput struct {
	JobID       string
	ActorID     string
	Title       string
	Description string

	AssignedTo      string
	NumberOfWorkers int

	StartDate *time.Time
	EndDate   *time.Time

	ProgressUnit      string
	EstimatedQuantity float64
	DailyWages        float64
}

// TaskUseCase tracks site work inside an awarded job. Both the client and
// the assigned contractor can manage tasks; nobody else sees them.
type TaskUseCase interface {
	AddTask(ctx context.Context, in AddTaskInput) (*model.Task, error)
	ListTasks(ctx context.Context, jobID, actorID string, status model.TaskStatus) ([]*model.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID, actorID string, status model.TaskStatus) error
	// UpdateTaskProgress records the completed quantity; hitting the estimate
	// completes the task.
	UpdateTaskProgress(ctx context.Context, taskID, actorID string, completedQuantity float64) (*model.Task, error)
	DeleteTask(ctx context.Context, taskID, actorID string) error
}

type taskUC struct {
	tasks repository.TaskRepository
	jobs  repository.JobRepository
	log   *zerolog.Logger
}

func NewTaskUseCase(tasks repository.TaskRepository, jobs repository.JobRepository, logger *zerolog.Logger) *taskUC {
	compLog := logger.With().Str("component", "TaskUC").Logger()
	return &taskUC{tasks: tasks, jobs: jobs, log: &compLog}
}

// jobParty loads the job and checks the actor is the client or the assigned
// contractor.
func (u *taskUC) jobParty(ctx context.Context, jobID, actorID string) (*model.Job, error) {
	job, err := u.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	if actorID != job.ClientID &&
		(job.AssignedContractorID == nil || actorID != *job.AssignedContractorID) {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

func (u *taskUC) AddTask(ctx context.Context, in AddTaskInput) (*model.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
	}
	if in.EstimatedQuantity < 0 || in.DailyWages < 0 {
		return nil, fmt.Errorf("%w: quantities and wages must not be negative", domain.ErrInvalidInput)
	}
	job, err := u.jobParty(ctx, in.JobID, in.ActorID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusInProgress {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	task := &model.Task{
		ID:                ulid.Make().String(),
		JobID:             job.ID,
		JobTitle:          job.Title,
		Title:             in.Title,
		Description:       in.Description,
		AssignedTo:        in.AssignedTo,
		NumberOfWorkers:   in.NumberOfWorkers,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		Status:            model.TaskStatusNotStarted,
		ProgressUnit:      in.ProgressUnit,
		EstimatedQuantity: in.EstimatedQuantity,
		DailyWages:        in.DailyWages,
		TotalCost:         in.DailyWages * float64(in.NumberOfWorkers),
		CreatedBy:         in.ActorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUC) ListTasks(ctx context.Context, jobID, actorID string, status model.TaskStatus) ([]*model.Task, error) {
	if _, err := u.jobParty(ctx, jobID, actorID); err != nil {
		return nil, err
	}
	if status == "" {
		return u.tasks.ListByJob(ctx, jobID)
	}
	if !model.ValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: unknown task status %q", domain.ErrInvalidInput, status)
	}
	return u.tasks.ListByJobAndStatus(ctx, jobID, status)
}

func (u *taskUC) UpdateTaskStatus(ctx context.Context, taskID, actorID string, status model.TaskStatus) error {
	if !model.ValidTaskStatus(status) {
		return fmt.Errorf("%w: unknown task status %q", domain.ErrInvalidInput, status)
	}
	task, err := u.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := u.jobParty(ctx, task.JobID, actorID); err != nil {
		return err
	}
	task.Status = status
	task.UpdatedAt = time.Now()
	return u.tasks.Update(ctx, task)
}

func (u *taskUC) UpdateTaskProgress(ctx context.Context, taskID, actorID string, completedQuantity float64) (*model.Task, error) {
	if completedQuantity < 0 {
		return nil, fmt.Errorf("%w: completed quantity must not be negative", domain.ErrInvalidInput)
	}
	task, err := u.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := u.jobParty(ctx, task.JobID, actorID); err != nil {
		return nil, err
	}
	task.ApplyProgress(completedQuantity)
	task.UpdatedAt = time.Now()
	if err := u.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUC) DeleteTask(ctx context.Context, taskID, actorID string) error {
	task, err := u.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := u.jobParty(ctx, task.JobID, actorID); err != nil {
		return err
	}
	return u.tasks.Delete(ctx, taskID)
}
