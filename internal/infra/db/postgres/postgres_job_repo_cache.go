package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
	"buildbid/internal/infra/metrics"
	red "buildbid/internal/infra/redis"
)

var _ repository.JobRepository = (*jobRepoCacheDecorator)(nil)

// jobRepoCacheDecorator caches the open-job listings, the hottest read path
// (every contractor browsing jobs hits it). All writes invalidate, since any
// of them can change what the open listing shows.
type jobRepoCacheDecorator struct {
	inner repository.JobRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewJobRepoCacheDecorator(inner repository.JobRepository, cache red.RedisClient, ttl time.Duration) repository.JobRepository {
	return &jobRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func openJobsKey(category string) string {
	if category == "" {
		return "jobs:open"
	}
	return fmt.Sprintf("jobs:open:%s", category)
}

func (d *jobRepoCacheDecorator) ListOpen(ctx context.Context, category string) ([]*model.Job, error) {
	key := openJobsKey(category)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var jobs []*model.Job
		if json.Unmarshal([]byte(val), &jobs) == nil {
			metrics.IncCacheRequest("open_jobs", "hit")
			return jobs, nil
		}
	}

	metrics.IncCacheRequest("open_jobs", "miss")
	jobs, err := d.inner.ListOpen(ctx, category)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(jobs); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return jobs, nil
}

func (d *jobRepoCacheDecorator) invalidate(ctx context.Context, category string) {
	_ = d.cache.Del(ctx, "jobs:open")
	if category != "" {
		_ = d.cache.Del(ctx, openJobsKey(category))
	}
}

func (d *jobRepoCacheDecorator) invalidateByID(ctx context.Context, id string) {
	// Category is unknown from the id alone; refetch so the scoped key can be
	// dropped too. Best-effort, a miss just leaves a stale entry to expire.
	if job, err := d.inner.FindByID(ctx, repository.NoTX, id); err == nil {
		d.invalidate(ctx, job.Category)
		return
	}
	d.invalidate(ctx, "")
}

func (d *jobRepoCacheDecorator) Create(ctx context.Context, job *model.Job) error {
	if err := d.inner.Create(ctx, job); err != nil {
		return err
	}
	d.invalidate(ctx, job.Category)
	return nil
}

func (d *jobRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	return d.inner.FindByID(ctx, tx, id)
}

func (d *jobRepoCacheDecorator) ListByClient(ctx context.Context, clientID string) ([]*model.Job, error) {
	return d.inner.ListByClient(ctx, clientID)
}

func (d *jobRepoCacheDecorator) ListByContractor(ctx context.Context, contractorID string) ([]*model.Job, error) {
	return d.inner.ListByContractor(ctx, contractorID)
}

func (d *jobRepoCacheDecorator) ListByStatus(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
	return d.inner.ListByStatus(ctx, status)
}

func (d *jobRepoCacheDecorator) IncrementTotalBids(ctx context.Context, id string) error {
	if err := d.inner.IncrementTotalBids(ctx, id); err != nil {
		return err
	}
	d.invalidateByID(ctx, id)
	return nil
}

func (d *jobRepoCacheDecorator) AssignContractor(ctx context.Context, id string, a repository.JobAssignment) error {
	if err := d.inner.AssignContractor(ctx, id, a); err != nil {
		return err
	}
	d.invalidateByID(ctx, id)
	return nil
}

func (d *jobRepoCacheDecorator) Complete(ctx context.Context, tx repository.Tx, id string, completedAt time.Time) error {
	if err := d.inner.Complete(ctx, tx, id, completedAt); err != nil {
		return err
	}
	d.invalidateByID(ctx, id)
	return nil
}

func (d *jobRepoCacheDecorator) SetStatus(ctx context.Context, tx repository.Tx, id string, status model.JobStatus) error {
	if err := d.inner.SetStatus(ctx, tx, id, status); err != nil {
		return err
	}
	d.invalidateByID(ctx, id)
	return nil
}
