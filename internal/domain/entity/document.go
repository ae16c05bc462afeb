package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de negocio que generan movimientos de kardex.
const (
	DocumentKindPurchase   = "PURCHASE"
	DocumentKindSale       = "SALE"
	DocumentKindAdjustment = "ADJUSTMENT"
)

// Document es el encabezado de un documento de negocio (compra, venta o
// ajuste). El documento en sí no tiene estados internos: crear, editar y
// eliminar son las únicas transiciones, y la condición "período abierto" es
// una precondición externa, no un estado del documento.
type Document struct {
	ID            string
	CompanyID     string
	Kind          string // ver constantes DocumentKind*
	Number        string // consecutivo del documento (factura, remisión, etc.)
	CounterpartID string // proveedor (compra), cliente (venta), destino (ajuste)
	Date          time.Time

	// PricesIncludeTax indica si los precios unitarios digitados traen IVA
	// incluido; el costeo siempre trabaja con el precio sin impuesto.
	PricesIncludeTax bool

	// AdditionalCost es el costo adicional del documento (fletes, aduana...)
	// que se prorratea entre las líneas en proporción a su subtotal.
	AdditionalCost decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentLine es una línea de documento persistida. EffectiveUnitCost guarda
// el costo unitario con el que se generó el movimiento de entrada (precio sin
// IVA más prorrateo), para poder calcular deltas y reversas al editar.
type DocumentLine struct {
	ID          string
	DocumentID  string
	ProductID   string
	WarehouseID string

	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal // precio digitado (con o sin IVA según el documento)
	TaxRate   decimal.Decimal

	Subtotal          decimal.Decimal // cantidad × precio sin IVA, a 2 decimales
	TotalCost         decimal.Decimal // subtotal más prorrateo, a 2 decimales
	EffectiveUnitCost decimal.Decimal // costo unitario efectivo de la entrada, a 6 decimales

	CreatedAt time.Time
}
