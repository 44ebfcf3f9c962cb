package usecase

import (
	"context"
	"errors"
	"testing"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
)

type taskFixture struct {
	tasks *memTaskRepo
	jobs  *memJobRepo
	uc    TaskUseCase
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	f := &taskFixture{
		tasks: newMemTaskRepo(),
		jobs:  newMemJobRepo(),
	}
	f.uc = NewTaskUseCase(f.tasks, f.jobs, newTestLogger())

	cid := "C1"
	f.jobs.store["J1"] = &model.Job{
		ID: "J1", ClientID: "CL1", Title: "Boundary wall",
		Status: model.JobStatusInProgress, AssignedContractorID: &cid,
	}
	f.jobs.store["J2"] = &model.Job{ID: "J2", ClientID: "CL1", Title: "Roof repair", Status: model.JobStatusOpen}
	return f
}

func TestAddTask(t *testing.T) {
	t.Parallel()
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.uc.AddTask(ctx, AddTaskInput{
		JobID: "J1", ActorID: "C1", Title: "Brickwork",
		NumberOfWorkers: 4, ProgressUnit: "sq ft",
		EstimatedQuantity: 800, DailyWages: 1500,
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Status != model.TaskStatusNotStarted {
		t.Fatalf("new task should be not_started, got %s", task.Status)
	}
	if task.JobTitle != "Boundary wall" {
		t.Fatalf("job title snapshot missing")
	}
	if task.TotalCost != 6000 {
		t.Fatalf("total cost: want 6000, got %.2f", task.TotalCost)
	}

	// Validation.
	if _, err := f.uc.AddTask(ctx, AddTaskInput{JobID: "J1", ActorID: "C1"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("missing title: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.uc.AddTask(ctx, AddTaskInput{JobID: "J1", ActorID: "C1", Title: "x", DailyWages: -1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("negative wages: want ErrInvalidInput, got %v", err)
	}

	// Only the client or the assigned contractor can add tasks.
	if _, err := f.uc.AddTask(ctx, AddTaskInput{JobID: "J1", ActorID: "C2", Title: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider: want ErrForbidden, got %v", err)
	}

	// The job must be in progress.
	if _, err := f.uc.AddTask(ctx, AddTaskInput{JobID: "J2", ActorID: "CL1", Title: "x"}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("open job: want ErrInvalidState, got %v", err)
	}
}

func TestUpdateTaskProgress(t *testing.T) {
	t.Parallel()
	f := newTaskFixture(t)
	ctx := context.Background()

	f.tasks.store["T1"] = &model.Task{
		ID: "T1", JobID: "J1", Title: "Brickwork",
		Status: model.TaskStatusNotStarted, EstimatedQuantity: 800,
	}

	task, err := f.uc.UpdateTaskProgress(ctx, "T1", "CL1", 200)
	if err != nil {
		t.Fatalf("UpdateTaskProgress: %v", err)
	}
	if task.Status != model.TaskStatusOngoing || task.ProgressPercentage != 25 {
		t.Fatalf("partial progress: want ongoing at 25%%, got %s at %.1f%%", task.Status, task.ProgressPercentage)
	}

	// Reaching the estimate completes the task; the percentage caps at 100.
	task, err = f.uc.UpdateTaskProgress(ctx, "T1", "CL1", 900)
	if err != nil {
		t.Fatalf("UpdateTaskProgress: %v", err)
	}
	if task.Status != model.TaskStatusCompleted || task.ProgressPercentage != 100 {
		t.Fatalf("full progress: want completed at 100%%, got %s at %.1f%%", task.Status, task.ProgressPercentage)
	}

	if _, err := f.uc.UpdateTaskProgress(ctx, "T1", "CL1", -5); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("negative quantity: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.uc.UpdateTaskProgress(ctx, "T1", "C2", 10); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider: want ErrForbidden, got %v", err)
	}
}

func TestTaskStatusAndListing(t *testing.T) {
	t.Parallel()
	f := newTaskFixture(t)
	ctx := context.Background()

	f.tasks.store["T1"] = &model.Task{ID: "T1", JobID: "J1", Title: "Brickwork", Status: model.TaskStatusNotStarted}
	f.tasks.store["T2"] = &model.Task{ID: "T2", JobID: "J1", Title: "Plaster", Status: model.TaskStatusOngoing}

	if err := f.uc.UpdateTaskStatus(ctx, "T1", "C1", model.TaskStatusOngoing); err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if err := f.uc.UpdateTaskStatus(ctx, "T1", "C1", "paused"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown status: want ErrInvalidInput, got %v", err)
	}

	all, err := f.uc.ListTasks(ctx, "J1", "CL1", "")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 tasks, got %d", len(all))
	}

	ongoing, err := f.uc.ListTasks(ctx, "J1", "CL1", model.TaskStatusOngoing)
	if err != nil {
		t.Fatalf("ListTasks filtered: %v", err)
	}
	if len(ongoing) != 2 {
		t.Fatalf("want 2 ongoing tasks, got %d", len(ongoing))
	}

	if _, err := f.uc.ListTasks(ctx, "J1", "C2", ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider list: want ErrForbidden, got %v", err)
	}
	if _, err := f.uc.ListTasks(ctx, "J1", "CL1", "weird"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown filter: want ErrInvalidInput, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()
	f := newTaskFixture(t)
	ctx := context.Background()

	f.tasks.store["T1"] = &model.Task{ID: "T1", JobID: "J1", Title: "Brickwork", Status: model.TaskStatusNotStarted}

	if err := f.uc.DeleteTask(ctx, "T1", "C2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider delete: want ErrForbidden, got %v", err)
	}
	if err := f.uc.DeleteTask(ctx, "T1", "CL1"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := f.uc.DeleteTask(ctx, "T1", "CL1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}
