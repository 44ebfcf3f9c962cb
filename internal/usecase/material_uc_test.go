package usecase

import (
	"context"
	"errors"
	"testing"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
)

type materialFixture struct {
	materials *memMaterialRepo
	jobs      *memJobRepo
	uc        MaterialUseCase
}

func newMaterialFixture(t *testing.T) *materialFixture {
	t.Helper()
	f := &materialFixture{
		materials: newMemMaterialRepo(),
		jobs:      newMemJobRepo(),
	}
	f.uc = NewMaterialUseCase(f.materials, f.jobs, newTestLogger())

	cid := "C1"
	f.jobs.store["J1"] = &model.Job{
		ID: "J1", ClientID: "CL1", Title: "Boundary wall",
		Status: model.JobStatusInProgress, AssignedContractorID: &cid,
	}
	f.jobs.store["J2"] = &model.Job{ID: "J2", ClientID: "CL1", Title: "Roof repair", Status: model.JobStatusOpen}
	return f
}

func TestAddMaterial(t *testing.T) {
	t.Parallel()
	f := newMaterialFixture(t)
	ctx := context.Background()

	mat, err := f.uc.AddMaterial(ctx, AddMaterialInput{
		JobID: "J1", ActorID: "C1", Name: "Cement", Category: "masonry",
		Quantity: 40, Unit: "bags", UnitPrice: 1250, LowStockThreshold: 10,
	})
	if err != nil {
		t.Fatalf("AddMaterial: %v", err)
	}
	if mat.Status != model.MaterialStatusInStock {
		t.Fatalf("new material should be in_stock, got %s", mat.Status)
	}
	if mat.TotalCost != 50000 {
		t.Fatalf("total cost: want 50000, got %.2f", mat.TotalCost)
	}
	if mat.JobTitle != "Boundary wall" {
		t.Fatalf("job title snapshot missing")
	}

	// Validation.
	if _, err := f.uc.AddMaterial(ctx, AddMaterialInput{JobID: "J1", ActorID: "C1"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("missing name: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.uc.AddMaterial(ctx, AddMaterialInput{JobID: "J1", ActorID: "C1", Name: "x", UnitPrice: -1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("negative price: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.uc.AddMaterial(ctx, AddMaterialInput{JobID: "J1", ActorID: "C2", Name: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider: want ErrForbidden, got %v", err)
	}
	if _, err := f.uc.AddMaterial(ctx, AddMaterialInput{JobID: "J2", ActorID: "CL1", Name: "x"}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("open job: want ErrInvalidState, got %v", err)
	}
}

func TestAdjustQuantity(t *testing.T) {
	t.Parallel()
	f := newMaterialFixture(t)
	ctx := context.Background()

	f.materials.store["M1"] = &model.Material{
		ID: "M1", JobID: "J1", Name: "Cement", Unit: "bags",
		Quantity: 12, UnitPrice: 1250, LowStockThreshold: 10,
		Status: model.MaterialStatusInStock,
	}

	// Usage pulls the stock under the threshold.
	mat, err := f.uc.AdjustQuantity(ctx, "M1", "C1", -4)
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if mat.Quantity != 8 || mat.Status != model.MaterialStatusLowStock {
		t.Fatalf("want 8 bags low_stock, got %.0f %s", mat.Quantity, mat.Status)
	}
	if mat.TotalCost != 10000 {
		t.Fatalf("total cost after usage: want 10000, got %.2f", mat.TotalCost)
	}

	// Draining the rest marks it out of stock.
	mat, err = f.uc.AdjustQuantity(ctx, "M1", "CL1", -8)
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if mat.Status != model.MaterialStatusOutOfStock {
		t.Fatalf("want out_of_stock, got %s", mat.Status)
	}

	// Restocking brings it back.
	mat, err = f.uc.AdjustQuantity(ctx, "M1", "C1", 20)
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if mat.Status != model.MaterialStatusInStock {
		t.Fatalf("want in_stock after restock, got %s", mat.Status)
	}

	// Stock can not go below zero.
	if _, err := f.uc.AdjustQuantity(ctx, "M1", "C1", -25); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("over-deduction: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.uc.AdjustQuantity(ctx, "M1", "C2", -1); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider: want ErrForbidden, got %v", err)
	}
}

func TestListMaterialsAndInventoryValue(t *testing.T) {
	t.Parallel()
	f := newMaterialFixture(t)
	ctx := context.Background()

	f.materials.store["M1"] = &model.Material{ID: "M1", JobID: "J1", Name: "Cement", TotalCost: 50000, Status: model.MaterialStatusInStock}
	f.materials.store["M2"] = &model.Material{ID: "M2", JobID: "J1", Name: "Sand", TotalCost: 8000, Status: model.MaterialStatusLowStock}
	f.materials.store["M3"] = &model.Material{ID: "M3", JobID: "J9", Name: "Bricks", TotalCost: 99999, Status: model.MaterialStatusInStock}

	all, err := f.uc.ListMaterials(ctx, "J1", "CL1", "")
	if err != nil {
		t.Fatalf("ListMaterials: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 materials, got %d", len(all))
	}

	low, err := f.uc.ListMaterials(ctx, "J1", "CL1", model.MaterialStatusLowStock)
	if err != nil {
		t.Fatalf("ListMaterials filtered: %v", err)
	}
	if len(low) != 1 || low[0].Name != "Sand" {
		t.Fatalf("want the low-stock sand, got %+v", low)
	}

	if _, err := f.uc.ListMaterials(ctx, "J1", "CL1", "weird"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown filter: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.uc.ListMaterials(ctx, "J1", "C2", ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider list: want ErrForbidden, got %v", err)
	}

	// Inventory value sums this job's materials only.
	total, err := f.uc.InventoryValue(ctx, "J1", "C1")
	if err != nil {
		t.Fatalf("InventoryValue: %v", err)
	}
	if total != 58000 {
		t.Fatalf("want 58000, got %.2f", total)
	}
}

func TestDeleteMaterial(t *testing.T) {
	t.Parallel()
	f := newMaterialFixture(t)
	ctx := context.Background()

	f.materials.store["M1"] = &model.Material{ID: "M1", JobID: "J1", Name: "Cement", Status: model.MaterialStatusInStock}

	if err := f.uc.DeleteMaterial(ctx, "M1", "C2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider delete: want ErrForbidden, got %v", err)
	}
	if err := f.uc.DeleteMaterial(ctx, "M1", "CL1"); err != nil {
		t.Fatalf("DeleteMaterial: %v", err)
	}
	if err := f.uc.DeleteMaterial(ctx, "M1", "CL1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}
