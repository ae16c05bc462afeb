package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// El costo no vive aquí: es un campo derivado de los movimientos del kardex.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	TaxRate     decimal.Decimal // IVA: 0, 0.05, 0.19
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
