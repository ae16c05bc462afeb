package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineInput es una línea enviada por el llamador al crear o editar un
// documento. LineID referencia la línea persistida que reemplaza; vacío
// significa línea nueva.
type DocumentLineInput struct {
	LineID      string          `json:"line_id,omitempty"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// PostDocumentRequest body para crear compras y ventas.
type PostDocumentRequest struct {
	CompanyID        string              `json:"company_id"`
	Number           string              `json:"number"`
	CounterpartID    string              `json:"counterpart_id,omitempty"`
	Date             time.Time           `json:"date"`
	PricesIncludeTax bool                `json:"prices_include_tax"`
	AdditionalCost   decimal.Decimal     `json:"additional_cost"`
	Lines            []DocumentLineInput `json:"lines"`
}

// PostAdjustmentRequest body para crear un ajuste (una sola línea; el signo de
// la cantidad define la dirección: positivo entrada, negativo salida).
type PostAdjustmentRequest struct {
	CompanyID   string          `json:"company_id"`
	Number      string          `json:"number"`
	Date        time.Time       `json:"date"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"` // solo entradas
}

// EditDocumentRequest body para editar un documento: el conjunto completo de
// líneas nuevo. Las líneas sin LineID son adiciones; las persistidas ausentes
// del conjunto se reversan y eliminan.
type EditDocumentRequest struct {
	Lines []DocumentLineInput `json:"lines"`
}

// CostWarningDTO advertencia de costeo degenerado producida por el recálculo.
type CostWarningDTO struct {
	MovementID string          `json:"movement_id"`
	Reason     string          `json:"reason"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// CommittedLineDTO línea confirmada con sus montos calculados.
type CommittedLineDTO struct {
	LineID            string          `json:"line_id"`
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	EffectiveUnitCost decimal.Decimal `json:"effective_unit_cost"`
}

// CommittedDocumentResponse respuesta de toda operación mutadora de documentos.
type CommittedDocumentResponse struct {
	DocumentID string             `json:"document_id"`
	Kind       string             `json:"kind"`
	Number     string             `json:"number"`
	Date       time.Time          `json:"date"`
	Total      decimal.Decimal    `json:"total"`
	Lines      []CommittedLineDTO `json:"lines,omitempty"`
	Warnings   []CostWarningDTO   `json:"warnings,omitempty"`
}
