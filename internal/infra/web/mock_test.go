package web

import (
	"context"

	"buildbid/internal/domain/model"
	"buildbid/internal/usecase"
)

// Function-field mocks so each test stubs only the calls it exercises.

type mockJobUC struct {
	postFn         func(ctx context.Context, in usecase.PostJobInput) (*model.Job, error)
	getFn          func(ctx context.Context, id string) (*model.Job, error)
	listOpenFn     func(ctx context.Context, category string) ([]*model.Job, error)
	listClientFn   func(ctx context.Context, clientID string) ([]*model.Job, error)
	listContrFn    func(ctx context.Context, contractorID string) ([]*model.Job, error)
	listByStatusFn func(ctx context.Context, status model.JobStatus) ([]*model.Job, error)
	completeFn     func(ctx context.Context, jobID, actingUserID string) error
	cancelFn       func(ctx context.Context, jobID, actingUserID string) error
}

func (m *mockJobUC) PostJob(ctx context.Context, in usecase.PostJobInput) (*model.Job, error) {
	return m.postFn(ctx, in)
}
func (m *mockJobUC) GetJob(ctx context.Context, id string) (*model.Job, error) {
	return m.getFn(ctx, id)
}
func (m *mockJobUC) ListOpen(ctx context.Context, category string) ([]*model.Job, error) {
	return m.listOpenFn(ctx, category)
}
func (m *mockJobUC) ListByClient(ctx context.Context, clientID string) ([]*model.Job, error) {
	return m.listClientFn(ctx, clientID)
}
func (m *mockJobUC) ListByContractor(ctx context.Context, contractorID string) ([]*model.Job, error) {
	return m.listContrFn(ctx, contractorID)
}
func (m *mockJobUC) ListByStatus(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
	return m.listByStatusFn(ctx, status)
}
func (m *mockJobUC) CompleteJob(ctx context.Context, jobID, actingUserID string) error {
	return m.completeFn(ctx, jobID, actingUserID)
}
func (m *mockJobUC) CancelJob(ctx context.Context, jobID, actingUserID string) error {
	return m.cancelFn(ctx, jobID, actingUserID)
}

type mockBidUC struct {
	submitFn      func(ctx context.Context, in usecase.SubmitBidInput) (*model.Bid, error)
	listFn        func(ctx context.Context, jobID string, sortOrder usecase.BidSort) ([]*model.Bid, error)
	listByContrFn func(ctx context.Context, contractorID string) ([]*model.Bid, error)
	acceptFn      func(ctx context.Context, jobID, bidID, actingUserID string) error
	rejectFn      func(ctx context.Context, bidID, actingUserID string) error
	repairFn      func(ctx context.Context, jobID string) error
	jobWithFn     func(ctx context.Context, jobID string) (*model.Job, []*model.Bid, error)
}

func (m *mockBidUC) SubmitBid(ctx context.Context, in usecase.SubmitBidInput) (*model.Bid, error) {
	return m.submitFn(ctx, in)
}
func (m *mockBidUC) ListBids(ctx context.Context, jobID string, sortOrder usecase.BidSort) ([]*model.Bid, error) {
	return m.listFn(ctx, jobID, sortOrder)
}
func (m *mockBidUC) ListByContractor(ctx context.Context, contractorID string) ([]*model.Bid, error) {
	return m.listByContrFn(ctx, contractorID)
}
func (m *mockBidUC) AcceptBid(ctx context.Context, jobID, bidID, actingUserID string) error {
	return m.acceptFn(ctx, jobID, bidID, actingUserID)
}
func (m *mockBidUC) RejectBid(ctx context.Context, bidID, actingUserID string) error {
	return m.rejectFn(ctx, bidID, actingUserID)
}
func (m *mockBidUC) RepairAward(ctx context.Context, jobID string) error {
	return m.repairFn(ctx, jobID)
}
func (m *mockBidUC) JobWithBids(ctx context.Context, jobID string) (*model.Job, []*model.Bid, error) {
	return m.jobWithFn(ctx, jobID)
}

type mockUserUC struct {
	registerFn func(ctx context.Context, in usecase.RegisterInput) (*model.User, error)
	getFn      func(ctx context.Context, id string) (*model.User, error)
	updateFn   func(ctx context.Context, id, actingUserID string, in usecase.UpdateProfileInput) (*model.User, error)
	listFn     func(ctx context.Context, category string) ([]*model.User, error)
}

func (m *mockUserUC) Register(ctx context.Context, in usecase.RegisterInput) (*model.User, error) {
	return m.registerFn(ctx, in)
}
func (m *mockUserUC) Get(ctx context.Context, id string) (*model.User, error) {
	return m.getFn(ctx, id)
}
func (m *mockUserUC) UpdateProfile(ctx context.Context, id, actingUserID string, in usecase.UpdateProfileInput) (*model.User, error) {
	return m.updateFn(ctx, id, actingUserID, in)
}
func (m *mockUserUC) ListContractors(ctx context.Context, category string) ([]*model.User, error) {
	return m.listFn(ctx, category)
}

type mockReviewUC struct {
	submitFn func(ctx context.Context, in usecase.SubmitReviewInput) (*model.Review, error)
	listFn   func(ctx context.Context, contractorID string) ([]*model.Review, error)
}

func (m *mockReviewUC) SubmitReview(ctx context.Context, in usecase.SubmitReviewInput) (*model.Review, error) {
	return m.submitFn(ctx, in)
}
func (m *mockReviewUC) ListByContractor(ctx context.Context, contractorID string) ([]*model.Review, error) {
	return m.listFn(ctx, contractorID)
}

type mockNotifUC struct {
	listFn     func(ctx context.Context, userID string) ([]*model.Notification, error)
	countFn    func(ctx context.Context, userID string) (int, error)
	markReadFn func(ctx context.Context, id, actingUserID string) error
	markAllFn  func(ctx context.Context, userID string) error
	deleteFn   func(ctx context.Context, id, actingUserID string) error
	dispatchFn func(ctx context.Context, batch int) (int, error)
}

func (m *mockNotifUC) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	return m.listFn(ctx, userID)
}
func (m *mockNotifUC) CountUnread(ctx context.Context, userID string) (int, error) {
	return m.countFn(ctx, userID)
}
func (m *mockNotifUC) MarkRead(ctx context.Context, id, actingUserID string) error {
	return m.markReadFn(ctx, id, actingUserID)
}
func (m *mockNotifUC) MarkAllRead(ctx context.Context, userID string) error {
	return m.markAllFn(ctx, userID)
}
func (m *mockNotifUC) Delete(ctx context.Context, id, actingUserID string) error {
	return m.deleteFn(ctx, id, actingUserID)
}
func (m *mockNotifUC) DispatchPending(ctx context.Context, batch int) (int, error) {
	return m.dispatchFn(ctx, batch)
}

type mockTaskUC struct {
	addFn      func(ctx context.Context, in usecase.AddTaskInput) (*model.Task, error)
	listFn     func(ctx context.Context, jobID, actorID string, status model.TaskStatus) ([]*model.Task, error)
	statusFn   func(ctx context.Context, taskID, actorID string, status model.TaskStatus) error
	progressFn func(ctx context.Context, taskID, actorID string, completedQuantity float64) (*model.Task, error)
	deleteFn   func(ctx context.Context, taskID, actorID string) error
}

func (m *mockTaskUC) AddTask(ctx context.Context, in usecase.AddTaskInput) (*model.Task, error) {
	return m.addFn(ctx, in)
}
func (m *mockTaskUC) ListTasks(ctx context.Context, jobID, actorID string, status model.TaskStatus) ([]*model.Task, error) {
	return m.listFn(ctx, jobID, actorID, status)
}
func (m *mockTaskUC) UpdateTaskStatus(ctx context.Context, taskID, actorID string, status model.TaskStatus) error {
	return m.statusFn(ctx, taskID, actorID, status)
}
func (m *mockTaskUC) UpdateTaskProgress(ctx context.Context, taskID, actorID string, completedQuantity float64) (*model.Task, error) {
	return m.progressFn(ctx, taskID, actorID, completedQuantity)
}
func (m *mockTaskUC) DeleteTask(ctx context.Context, taskID, actorID string) error {
	return m.deleteFn(ctx, taskID, actorID)
}

type mockMaterialUC struct {
	addFn    func(ctx context.Context, in usecase.AddMaterialInput) (*model.Material, error)
	listFn   func(ctx context.Context, jobID, actorID string, status model.MaterialStatus) ([]*model.Material, error)
	adjustFn func(ctx context.Context, materialID, actorID string, delta float64) (*model.Material, error)
	deleteFn func(ctx context.Context, materialID, actorID string) error
	valueFn  func(ctx context.Context, jobID, actorID string) (float64, error)
}

func (m *mockMaterialUC) AddMaterial(ctx context.Context, in usecase.AddMaterialInput) (*model.Material, error) {
	return m.addFn(ctx, in)
}
func (m *mockMaterialUC) ListMaterials(ctx context.Context, jobID, actorID string, status model.MaterialStatus) ([]*model.Material, error) {
	return m.listFn(ctx, jobID, actorID, status)
}
func (m *mockMaterialUC) AdjustQuantity(ctx context.Context, materialID, actorID string, delta float64) (*model.Material, error) {
	return m.adjustFn(ctx, materialID, actorID, delta)
}
func (m *mockMaterialUC) DeleteMaterial(ctx context.Context, materialID, actorID string) error {
	return m.deleteFn(ctx, materialID, actorID)
}
func (m *mockMaterialUC) InventoryValue(ctx context.Context, jobID, actorID string) (float64, error) {
	return m.valueFn(ctx, jobID, actorID)
}

type mockAssistantUC struct {
	chatFn  func(ctx context.Context, userID, message string) (string, error)
	resetFn func(ctx context.Context, userID string) error
}

func (m *mockAssistantUC) Chat(ctx context.Context, userID, message string) (string, error) {
	return m.chatFn(ctx, userID, message)
}
func (m *mockAssistantUC) Reset(ctx context.Context, userID string) error {
	return m.resetFn(ctx, userID)
}
