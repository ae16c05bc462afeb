package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex. El conjunto es cerrado: cada documento del
// sistema genera movimientos de uno de estos tipos y el motor de valuación
// no acepta otros.
const (
	MovementKindPurchase       = "PURCHASE"        // compra (entrada)
	MovementKindSale           = "SALE"            // venta (salida)
	MovementKindRequisition    = "REQUISITION"     // consumo interno (salida)
	MovementKindAdjustmentIn   = "ADJUSTMENT_IN"   // ajuste positivo (entrada)
	MovementKindAdjustmentOut  = "ADJUSTMENT_OUT"  // ajuste negativo (salida)
	MovementKindPurchaseReturn = "PURCHASE_RETURN" // devolución a proveedor (salida)
	MovementKindSaleReturn     = "SALE_RETURN"     // devolución de cliente (entrada)
	MovementKindOpening        = "OPENING"         // saldo inicial (entrada)
	MovementKindYearClosing    = "YEAR_CLOSING"    // traslado de cierre de ejercicio (entrada)
)

// movementKindInflow indica la dirección de cada tipo: true = entrada.
var movementKindInflow = map[string]bool{
	MovementKindPurchase:       true,
	MovementKindSale:           false,
	MovementKindRequisition:    false,
	MovementKindAdjustmentIn:   true,
	MovementKindAdjustmentOut:  false,
	MovementKindPurchaseReturn: false,
	MovementKindSaleReturn:     true,
	MovementKindOpening:        true,
	MovementKindYearClosing:    true,
}

// ValidMovementKind reporta si kind pertenece al conjunto cerrado de tipos.
func ValidMovementKind(kind string) bool {
	_, ok := movementKindInflow[kind]
	return ok
}

// StockMovement es una fila del kardex: un evento que afecta la existencia de
// un producto en una bodega.
//
// Orden total por (CompanyID, ProductID, WarehouseID): (Date, Seq). Seq es un
// consecutivo de inserción y solo desempata; RegisteredAt es informativo y
// nunca participa en el ordenamiento por encima de Date.
//
// Un movimiento es inmutable una vez creado, excepto los campos de costeo
// (UnitCost, TotalCost, BalanceQuantity, BalanceValue), que pertenecen al
// recálculo y pueden reescribirse cada vez que se reproduce la historia.
type StockMovement struct {
	Seq int64  // consecutivo de inserción (BIGSERIAL), desempate del orden
	ID  string // UUID

	CompanyID   string
	ProductID   string
	WarehouseID string

	Kind string // ver constantes MovementKind*

	// Enlace documental (informativo, el motor no lo usa).
	DocumentKind  string // PURCHASE, SALE, ADJUSTMENT
	DocumentID    string
	LineID        string // línea del documento que originó el movimiento
	CounterpartID string // proveedor, cliente o destino

	// ReversalOfID enlaza una reversa con el movimiento que cancela; vacío en
	// cualquier otro movimiento. Una reversa lleva costo autoritativo (el del
	// movimiento reversado) y el motor no se lo deriva por política.
	ReversalOfID string

	Date         time.Time // fecha de negocio, define el orden del kardex
	RegisteredAt time.Time // momento de registro, solo informativo

	// Exactamente una de QuantityIn/QuantityOut es distinta de cero.
	QuantityIn  decimal.Decimal
	QuantityOut decimal.Decimal

	// UnitCost es autoritativo en entradas (lo fija el documento origen) y
	// derivado en salidas (lo fija el motor en cada recálculo).
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal

	// Saldos después de este movimiento, escritos por el recálculo.
	BalanceQuantity decimal.Decimal
	BalanceValue    decimal.Decimal
}

// IsInflow reporta si el movimiento es una entrada según su tipo.
func (m *StockMovement) IsInflow() bool {
	return movementKindInflow[m.Kind]
}

// Quantity devuelve la cantidad del movimiento sin signo (la que no es cero).
func (m *StockMovement) Quantity() decimal.Decimal {
	if m.IsInflow() {
		return m.QuantityIn
	}
	return m.QuantityOut
}

// reversalKind mapea cada tipo a su tipo de reversa (entrada<->salida).
var reversalKind = map[string]string{
	MovementKindPurchase:       MovementKindPurchaseReturn,
	MovementKindSale:           MovementKindSaleReturn,
	MovementKindRequisition:    MovementKindAdjustmentIn,
	MovementKindAdjustmentIn:   MovementKindAdjustmentOut,
	MovementKindAdjustmentOut:  MovementKindAdjustmentIn,
	MovementKindPurchaseReturn: MovementKindPurchase,
	MovementKindSaleReturn:     MovementKindSale,
	MovementKindOpening:        MovementKindAdjustmentOut,
	MovementKindYearClosing:    MovementKindAdjustmentOut,
}

// NewReversal construye el movimiento que cancela exactamente el efecto de m
// sobre los saldos: misma cantidad y mismo costo, dirección opuesta. La
// historia nunca se borra sin su reversa (ver coordinadores de documentos).
// La reversa queda enlazada al movimiento reversado vía ReversalOfID; su
// costo es autoritativo para el motor de valuación.
func (m *StockMovement) NewReversal(id string, registeredAt time.Time) *StockMovement {
	rev := &StockMovement{
		ID:            id,
		CompanyID:     m.CompanyID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Kind:          reversalKind[m.Kind],
		DocumentKind:  m.DocumentKind,
		DocumentID:    m.DocumentID,
		LineID:        m.LineID,
		CounterpartID: m.CounterpartID,
		ReversalOfID:  m.ID,
		Date:          m.Date,
		RegisteredAt:  registeredAt,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
	}
	if m.IsInflow() {
		rev.QuantityOut = m.QuantityIn
	} else {
		rev.QuantityIn = m.QuantityOut
	}
	return rev
}
