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
var _ MaterialUseCase = (*materialUC)(nil)

type AddMaterialInput struct {
	JobID   string
	ActorID string

	Name      string
	Category  string
	Quantity  float64
	Unit      string
	UnitPrice float64

	Supplier        string
	SupplierContact string
	Description     string

	LowStockThreshold float64
}

// MaterialUseCase tracks the material inventory of an awarded job. Same
// access rules as tasks: the client and the assigned contractor only.
type MaterialUseCase interface {
	AddMaterial(ctx context.Context, in AddMaterialInput) (*model.Material, error)
	ListMaterials(ctx context.Context, jobID, actorID string, status model.MaterialStatus) ([]*model.Material, error)
	// AdjustQuantity applies a signed delta: positive restocks, negative
	// records usage. The stock can not go below zero.
	AdjustQuantity(ctx context.Context, materialID, actorID string, delta float64) (*model.Material, error)
	DeleteMaterial(ctx context.Context, materialID, actorID string) error
	// InventoryValue returns the summed total cost of the job's materials.
	InventoryValue(ctx context.Context, jobID, actorID string) (float64, error)
}

type materialUC struct {
	materials repository.MaterialRepository
	jobs      repository.JobRepository
	log       *zerolog.Logger
}

func NewMaterialUseCase(materials repository.MaterialRepository, jobs repository.JobRepository, logger *zerolog.Logger) *materialUC {
	compLog := logger.With().Str("component", "MaterialUC").Logger()
	return &materialUC{materials: materials, jobs: jobs, log: &compLog}
}

func (u *materialUC) jobParty(ctx context.Context, jobID, actorID string) (*model.Job, error) {
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

func (u *materialUC) AddMaterial(ctx context.Context, in AddMaterialInput) (*model.Material, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: material name is required", domain.ErrInvalidInput)
	}
	if in.Quantity < 0 || in.UnitPrice < 0 || in.LowStockThreshold < 0 {
		return nil, fmt.Errorf("%w: quantity, price and threshold must not be negative", domain.ErrInvalidInput)
	}
	job, err := u.jobParty(ctx, in.JobID, in.ActorID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusInProgress {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	material := &model.Material{
		ID:                ulid.Make().String(),
		JobID:             job.ID,
		JobTitle:          job.Title,
		Name:              in.Name,
		Category:          in.Category,
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		UnitPrice:         in.UnitPrice,
		Supplier:          in.Supplier,
		SupplierContact:   in.SupplierContact,
		Description:       in.Description,
		LowStockThreshold: in.LowStockThreshold,
		AddedBy:           in.ActorID,
		AddedAt:           now,
		UpdatedAt:         now,
	}
	material.Recalculate()
	if err := u.materials.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (u *materialUC) ListMaterials(ctx context.Context, jobID, actorID string, status model.MaterialStatus) ([]*model.Material, error) {
	if _, err := u.jobParty(ctx, jobID, actorID); err != nil {
		return nil, err
	}
	if status == "" {
		return u.materials.ListByJob(ctx, jobID)
	}
	switch status {
	case model.MaterialStatusInStock, model.MaterialStatusLowStock, model.MaterialStatusOutOfStock:
	default:
		return nil, fmt.Errorf("%w: unknown material status %q", domain.ErrInvalidInput, status)
	}
	return u.materials.ListByJobAndStatus(ctx, jobID, status)
}

func (u *materialUC) AdjustQuantity(ctx context.Context, materialID, actorID string, delta float64) (*model.Material, error) {
	material, err := u.materials.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if _, err := u.jobParty(ctx, material.JobID, actorID); err != nil {
		return nil, err
	}
	if material.Quantity+delta < 0 {
		return nil, fmt.Errorf("%w: only %.2f %s in stock", domain.ErrInvalidInput, material.Quantity, material.Unit)
	}
	material.Quantity += delta
	material.Recalculate()
	material.UpdatedAt = time.Now()
	if err := u.materials.Update(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (u *materialUC) DeleteMaterial(ctx context.Context, materialID, actorID string) error {
	material, err := u.materials.FindByID(ctx, materialID)
	if err != nil {
		return err
	}
	if _, err := u.jobParty(ctx, material.JobID, actorID); err != nil {
		return err
	}
	return u.materials.Delete(ctx, materialID)
}

func (u *materialUC) InventoryValue(ctx context.Context, jobID, actorID string) (float64, error) {
	if _, err := u.jobParty(ctx, jobID, actorID); err != nil {
		return 0, err
	}
	return u.materials.TotalCostByJob(ctx, jobID)
}
