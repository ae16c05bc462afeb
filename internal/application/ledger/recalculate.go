package ledger

import (
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/domain/valuation"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// Recalculator reproduce la historia del kardex desde una fecha de corte y
// reescribe los campos de costeo de los movimientos afectados. Opera sobre los
// repositorios que recibe, de modo que corre dentro de la unidad de trabajo
// del llamador (la misma transacción que escribió los movimientos).
//
// El despacho por política es explícito e idéntico en el recálculo incremental
// y en el global: una empresa FIFO recalcula FIFO también tras cada edición.
type Recalculator struct {
	log *logger.Logger
}

// NewRecalculator construye el coordinador de recálculo.
func NewRecalculator(log *logger.Logger) *Recalculator {
	return &Recalculator{log: log}
}

// Recalculate reproduce, para cada pareja afectada, los movimientos con fecha
// >= cutoff y reescribe sus costos y saldos. No crea ni elimina movimientos.
//
// Es idempotente: dos corridas consecutivas sobre el mismo conjunto de
// movimientos producen campos idénticos. Una pareja sin movimientos desde el
// corte es un no-op, no un error. Las parejas son independientes y se procesan
// en cualquier orden.
func (r *Recalculator) Recalculate(
	movRepo repository.StockMovementRepository,
	companyID, policy string,
	pairs []entity.Pair,
	cutoff time.Time,
) ([]valuation.Warning, error) {
	var warnings []valuation.Warning

	for _, pair := range pairs {
		slice, err := movRepo.ListForReplay(companyID, pair.ProductID, pair.WarehouseID, cutoff)
		if err != nil {
			return nil, fmt.Errorf("leer corte de %s/%s: %w", pair.ProductID, pair.WarehouseID, err)
		}
		if len(slice) == 0 {
			continue
		}

		opening, err := r.openingState(movRepo, companyID, policy, pair, cutoff)
		if err != nil {
			return nil, err
		}

		_, warns := valuation.Valuate(policy, slice, opening)
		for _, m := range slice {
			if err := movRepo.UpdateCosting(m); err != nil {
				return nil, fmt.Errorf("actualizar costeo seq %d: %w", m.Seq, err)
			}
		}

		for _, w := range warns {
			r.log.Warn().
				Str("company_id", companyID).
				Str("product_id", pair.ProductID).
				Str("warehouse_id", pair.WarehouseID).
				Str("movement_id", w.MovementID).
				Str("reason", w.Reason).
				Str("quantity", w.Quantity.String()).
				Msg("salida costeada a cero por existencia insuficiente")
		}
		warnings = append(warnings, warns...)
	}

	return warnings, nil
}

// openingState reconstruye el estado de apertura de la pareja en el corte.
//
// Promedio ponderado se ancla en los saldos del último movimiento anterior al
// corte: con (existencia, valor) basta. FIFO y LIFO además necesitan la cola
// de lotes viva, que no se persiste, así que se reconstruye reproduciendo el
// tramo anterior al corte en modo siembra (sin tocar sus anotaciones).
func (r *Recalculator) openingState(
	movRepo repository.StockMovementRepository,
	companyID, policy string,
	pair entity.Pair,
	cutoff time.Time,
) (valuation.State, error) {
	if policy == entity.PolicyWeightedAverage {
		last, err := movRepo.LastBefore(companyID, pair.ProductID, pair.WarehouseID, cutoff)
		if err != nil {
			return valuation.State{}, fmt.Errorf("ancla de %s/%s: %w", pair.ProductID, pair.WarehouseID, err)
		}
		if last == nil {
			return valuation.State{}, nil
		}
		return valuation.State{Quantity: last.BalanceQuantity, Value: last.BalanceValue}, nil
	}

	before, err := movRepo.ListBefore(companyID, pair.ProductID, pair.WarehouseID, cutoff)
	if err != nil {
		return valuation.State{}, fmt.Errorf("tramo previo de %s/%s: %w", pair.ProductID, pair.WarehouseID, err)
	}
	return valuation.Seed(policy, before, valuation.State{}), nil
}
