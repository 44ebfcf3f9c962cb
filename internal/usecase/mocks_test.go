package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/adapter"
	"buildbid/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---------------- job repo ----------------

type memJobRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Job

	// error hooks to simulate partial failures
	findErr      error
	assignErr    error
	incErr       error
	completeErr  error
	setStatusErr error
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{store: make(map[string]*model.Job)}
}

func (m *memJobRepo) Create(ctx context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.store[job.ID] = &cp
	return nil
}

func (m *memJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobRepo) list(filter func(*model.Job) bool) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Job
	for _, j := range m.store {
		if filter(j) {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].PostedAt.After(out[k].PostedAt) })
	return out
}

func (m *memJobRepo) ListOpen(ctx context.Context, category string) ([]*model.Job, error) {
	return m.list(func(j *model.Job) bool {
		return j.Status == model.JobStatusOpen && (category == "" || j.Category == category)
	}), nil
}

func (m *memJobRepo) ListByClient(ctx context.Context, clientID string) ([]*model.Job, error) {
	return m.list(func(j *model.Job) bool { return j.ClientID == clientID }), nil
}

func (m *memJobRepo) ListByContractor(ctx context.Context, contractorID string) ([]*model.Job, error) {
	return m.list(func(j *model.Job) bool {
		return j.AssignedContractorID != nil && *j.AssignedContractorID == contractorID
	}), nil
}

func (m *memJobRepo) ListByStatus(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
	return m.list(func(j *model.Job) bool { return j.Status == status }), nil
}

func (m *memJobRepo) IncrementTotalBids(ctx context.Context, id string) error {
	if m.incErr != nil {
		return m.incErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.TotalBids++
	return nil
}

func (m *memJobRepo) AssignContractor(ctx context.Context, id string, a repository.JobAssignment) error {
	if m.assignErr != nil {
		return m.assignErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	started := a.StartedAt
	j.Status = model.JobStatusInProgress
	j.StartedAt = &started
	cid, cname, bid := a.ContractorID, a.ContractorName, a.BidID
	j.AssignedContractorID = &cid
	j.AssignedContractorName = &cname
	j.AcceptedBidID = &bid
	return nil
}

func (m *memJobRepo) Complete(ctx context.Context, tx repository.Tx, id string, completedAt time.Time) error {
	if m.completeErr != nil {
		return m.completeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status = model.JobStatusCompleted
	j.CompletedAt = &completedAt
	return nil
}

func (m *memJobRepo) SetStatus(ctx context.Context, tx repository.Tx, id string, status model.JobStatus) error {
	if m.setStatusErr != nil {
		return m.setStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status = status
	return nil
}

// ---------------- tx manager ----------------

type memTxManager struct {
	calls    int
	beginErr error
}

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(context.Context, repository.Tx) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	m.calls++
	return fn(ctx, repository.NoTX)
}

// ---------------- bid repo ----------------

type memBidRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Bid

	createErr error
	updateErr map[string]error // per-bid UpdateStatus failures
}

func newMemBidRepo() *memBidRepo {
	return &memBidRepo{store: make(map[string]*model.Bid), updateErr: make(map[string]error)}
}

func (m *memBidRepo) Create(ctx context.Context, bid *model.Bid) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *bid
	m.store[bid.ID] = &cp
	return nil
}

func (m *memBidRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBidRepo) list(filter func(*model.Bid) bool) []*model.Bid {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Bid
	for _, b := range m.store {
		if filter(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func (m *memBidRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Bid, error) {
	return m.list(func(b *model.Bid) bool { return b.JobID == jobID }), nil
}

func (m *memBidRepo) ListByJobAndStatus(ctx context.Context, jobID string, status model.BidStatus) ([]*model.Bid, error) {
	return m.list(func(b *model.Bid) bool { return b.JobID == jobID && b.Status == status }), nil
}

func (m *memBidRepo) ListByContractor(ctx context.Context, contractorID string) ([]*model.Bid, error) {
	return m.list(func(b *model.Bid) bool { return b.ContractorID == contractorID }), nil
}

func (m *memBidRepo) FindActiveByJobAndContractor(ctx context.Context, jobID, contractorID string) (*model.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.store {
		if b.JobID == jobID && b.ContractorID == contractorID && b.Status.Active() {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memBidRepo) UpdateStatus(ctx context.Context, id string, status model.BidStatus) error {
	if err := m.updateErr[id]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *memBidRepo) CountCompletedByContractor(ctx context.Context, contractorID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cnt := 0
	for _, b := range m.store {
		if b.ContractorID == contractorID && b.Status == model.BidStatusAccepted {
			cnt++
		}
	}
	return cnt, nil
}

// ---------------- user repo ----------------

type memUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (m *memUserRepo) Save(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.store[user.ID] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) ListContractors(ctx context.Context, category string) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.User
	for _, u := range m.store {
		if u.Role != model.UserRoleContractor {
			continue
		}
		if category != "" && u.Category != category {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Rating > out[k].Rating })
	return out, nil
}

func (m *memUserRepo) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Rating = rating
	u.ReviewCount = reviewCount
	return nil
}

func (m *memUserRepo) UpdateCompletedProjects(ctx context.Context, id string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.CompletedProjects = count
	return nil
}

func (m *memUserRepo) SetDeviceToken(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.DeviceToken = token
	return nil
}

// ---------------- notification repo ----------------

type memNotificationRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Notification
	order []string

	createErr error
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{store: make(map[string]*model.Notification)}
}

func (m *memNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *n
	m.store[n.ID] = &cp
	m.order = append(m.order, n.ID)
	return nil
}

func (m *memNotificationRepo) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNotificationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Notification
	for i := len(m.order) - 1; i >= 0; i-- {
		n := m.store[m.order[i]]
		if n != nil && n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cnt := 0
	for _, n := range m.store {
		if n.UserID == userID && !n.Read {
			cnt++
		}
	}
	return cnt, nil
}

func (m *memNotificationRepo) MarkRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.Read = true
	return nil
}

func (m *memNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.store {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (m *memNotificationRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memNotificationRepo) ListUnpushed(ctx context.Context, limit int) ([]*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Notification
	for _, id := range m.order {
		n := m.store[id]
		if n == nil || n.PushedAt != nil {
			continue
		}
		cp := *n
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memNotificationRepo) MarkPushed(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.PushedAt = &at
	return nil
}

// ---------------- review repo ----------------

type memReviewRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Review // by job ID, one review per job
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{store: make(map[string]*model.Review)}
}

func (m *memReviewRepo) Create(ctx context.Context, r *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.store[r.JobID] = &cp
	return nil
}

func (m *memReviewRepo) FindByJob(ctx context.Context, jobID string) (*model.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReviewRepo) ListByContractor(ctx context.Context, contractorID string) ([]*model.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Review
	for _, r := range m.store {
		if r.ContractorID == contractorID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memReviewRepo) AverageByContractor(ctx context.Context, contractorID string) (float64, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum, cnt := 0, 0
	for _, r := range m.store {
		if r.ContractorID == contractorID {
			sum += r.Rating
			cnt++
		}
	}
	if cnt == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(cnt), cnt, nil
}

// ---------------- task repo ----------------

type memTaskRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Task

	updateErr error
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{store: make(map[string]*model.Task)}
}

func (m *memTaskRepo) Create(ctx context.Context, t *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *memTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTaskRepo) list(filter func(*model.Task) bool) []*model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Task
	for _, t := range m.store {
		if filter(t) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func (m *memTaskRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Task, error) {
	return m.list(func(t *model.Task) bool { return t.JobID == jobID }), nil
}

func (m *memTaskRepo) ListByJobAndStatus(ctx context.Context, jobID string, status model.TaskStatus) ([]*model.Task, error) {
	return m.list(func(t *model.Task) bool { return t.JobID == jobID && t.Status == status }), nil
}

func (m *memTaskRepo) Update(ctx context.Context, t *model.Task) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *memTaskRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// ---------------- material repo ----------------

type memMaterialRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Material
}

func newMemMaterialRepo() *memMaterialRepo {
	return &memMaterialRepo{store: make(map[string]*model.Material)}
}

func (m *memMaterialRepo) Create(ctx context.Context, mat *model.Material) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *mat
	m.store[mat.ID] = &cp
	return nil
}

func (m *memMaterialRepo) FindByID(ctx context.Context, id string) (*model.Material, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mat, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *mat
	return &cp, nil
}

func (m *memMaterialRepo) list(filter func(*model.Material) bool) []*model.Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Material
	for _, mat := range m.store {
		if filter(mat) {
			cp := *mat
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func (m *memMaterialRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Material, error) {
	return m.list(func(mat *model.Material) bool { return mat.JobID == jobID }), nil
}

func (m *memMaterialRepo) ListByJobAndStatus(ctx context.Context, jobID string, status model.MaterialStatus) ([]*model.Material, error) {
	return m.list(func(mat *model.Material) bool { return mat.JobID == jobID && mat.Status == status }), nil
}

func (m *memMaterialRepo) Update(ctx context.Context, mat *model.Material) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[mat.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *mat
	m.store[mat.ID] = &cp
	return nil
}

func (m *memMaterialRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memMaterialRepo) TotalCostByJob(ctx context.Context, jobID string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0.0
	for _, mat := range m.store {
		if mat.JobID == jobID {
			total += mat.TotalCost
		}
	}
	return total, nil
}

// ---------------- chat session repo ----------------

type memSessionRepo struct {
	mu    sync.RWMutex
	store map[string]*model.ChatSession
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{store: make(map[string]*model.ChatSession)}
}

func (m *memSessionRepo) Get(ctx context.Context, userID string) (*model.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	cp.Messages = append([]model.ChatMessage(nil), s.Messages...)
	return &cp, nil
}

func (m *memSessionRepo) Save(ctx context.Context, session *model.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	cp.Messages = append([]model.ChatMessage(nil), session.Messages...)
	m.store[session.UserID] = &cp
	return nil
}

func (m *memSessionRepo) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, userID)
	return nil
}

// ---------------- adapters ----------------

type mockPush struct {
	mu      sync.Mutex
	sent    []adapter.PushMessage
	sendErr error
}

func (m *mockPush) Send(ctx context.Context, msg adapter.PushMessage) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type mockAI struct {
	reply    string
	chatErr  error
	calls    int
	tokens   int // CountTokens result; len(messages) when zero
	countErr error
}

func (m *mockAI) ListModels(ctx context.Context) ([]string, error) { return []string{"mock"}, nil }

func (m *mockAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	if m.tokens > 0 {
		return m.tokens, nil
	}
	return len(messages), nil
}

func (m *mockAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	m.calls++
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

type mockLimiter struct {
	allow   bool
	err     error
	calls   int
	lastKey string
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.calls++
	m.lastKey = key
	return m.allow, m.err
}

// inlineRunner runs fan-out tasks synchronously so tests see the effects
// before asserting.
type inlineRunner struct{}

func (inlineRunner) Submit(task func(ctx context.Context) error) error {
	return task(context.Background())
}
