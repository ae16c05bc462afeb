package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSliceRequest parámetros de consulta del kardex (solo lectura).
type LedgerSliceRequest struct {
	CompanyID   string    `query:"company_id"`
	ProductID   string    `query:"product_id"`
	WarehouseID string    `query:"warehouse_id"`
	DateFrom    time.Time `query:"date_from"`
	DateTo      time.Time `query:"date_to"`
}

// LedgerMovementDTO una fila del kardex anotada con costos y saldos.
type LedgerMovementDTO struct {
	Seq             int64           `json:"seq"`
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	DocumentKind    string          `json:"document_kind,omitempty"`
	DocumentID      string          `json:"document_id,omitempty"`
	CounterpartID   string          `json:"counterpart_id,omitempty"`
	Date            time.Time       `json:"date"`
	QuantityIn      decimal.Decimal `json:"quantity_in"`
	QuantityOut     decimal.Decimal `json:"quantity_out"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	BalanceQuantity decimal.Decimal `json:"balance_quantity"`
	BalanceValue    decimal.Decimal `json:"balance_value"`
}
