package model

import "time"

type MaterialStatus string

const (
	MaterialStatusInStock    MaterialStatus = "in_stock"
	MaterialStatusLowStock   MaterialStatus = "low_stock"
	MaterialStatusOutOfStock MaterialStatus = "out_of_stock"
)

// Material is a stock line tracked against an awarded job. TotalCost and
// Status are derived from quantity, unit price and the low-stock threshold.
type Material struct {
	ID       string
	JobID    string
	JobTitle string

	Name     string
	Category string // Cement, Steel, Bricks, Sand, ...

	Quantity  float64
	Unit      string // bags, kg, tons, pieces, cubic_meter
	UnitPrice float64
	TotalCost float64

	Supplier        string
	SupplierContact string
	Description     string

	Status            MaterialStatus
	LowStockThreshold float64

	AddedBy   string
	AddedAt   time.Time
	UpdatedAt time.Time
}

// Recalculate refreshes the derived total cost and stock status.
func (m *Material) Recalculate() {
	m.TotalCost = m.Quantity * m.UnitPrice
	switch {
	case m.Quantity <= 0:
		m.Status = MaterialStatusOutOfStock
	case m.LowStockThreshold > 0 && m.Quantity <= m.LowStockThreshold:
		m.Status = MaterialStatusLowStock
	default:
		m.Status = MaterialStatusInStock
	}
}
