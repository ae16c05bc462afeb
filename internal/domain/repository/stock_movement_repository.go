package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del kardex (DIP).
//
// Toda consulta que devuelve movimientos los entrega en el orden total del
// kardex: (fecha, consecutivo). El motor de valuación no puede usar otro
// orden para reproducir la historia.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)

	// LockPair serializa las operaciones concurrentes sobre la misma pareja
	// dentro de la unidad de trabajo (advisory lock transaccional). El
	// recálculo es un read-modify-write sobre el corte de la pareja y no es
	// seguro bajo intercalado.
	LockPair(companyID, productID, warehouseID string) error

	// ListForReplay devuelve los movimientos de la pareja con fecha >= from,
	// en orden total. Es el corte que reproduce el recálculo.
	ListForReplay(companyID, productID, warehouseID string, from time.Time) ([]*entity.StockMovement, error)

	// ListBefore devuelve los movimientos de la pareja con fecha < cutoff,
	// en orden total. Lo usa el recálculo FIFO/LIFO para reconstruir lotes.
	ListBefore(companyID, productID, warehouseID string, cutoff time.Time) ([]*entity.StockMovement, error)

	// LastBefore devuelve el último movimiento estrictamente anterior a
	// cutoff, o nil si no hay. Ancla del estado de apertura en promedio.
	LastBefore(companyID, productID, warehouseID string, cutoff time.Time) (*entity.StockMovement, error)

	// BalanceAsOf devuelve la existencia (Σ entradas − Σ salidas) de la
	// pareja hasta la fecha inclusive, independiente de las anotaciones.
	BalanceAsOf(companyID, productID, warehouseID string, date time.Time) (decimal.Decimal, error)

	// UpdateCosting reescribe los campos de costeo (costo unitario, costo
	// total y saldos) del movimiento identificado por Seq. Es la única
	// mutación permitida sobre un movimiento ya creado.
	UpdateCosting(movement *entity.StockMovement) error

	// ListPairs devuelve todas las parejas (producto, bodega) con movimientos
	// de la empresa. Lo usa el recálculo global.
	ListPairs(companyID string) ([]entity.Pair, error)

	// ListSlice devuelve los movimientos de la pareja en [from, to], en orden
	// total (consulta de solo lectura para reportes).
	ListSlice(companyID, productID, warehouseID string, from, to time.Time) ([]*entity.StockMovement, error)

	// ListByDocument devuelve los movimientos originados por un documento.
	ListByDocument(documentID string) ([]*entity.StockMovement, error)

	// ListByLine devuelve los movimientos originados por una línea, en orden
	// de registro (el original primero, luego reversas y deltas).
	ListByLine(lineID string) ([]*entity.StockMovement, error)
}
