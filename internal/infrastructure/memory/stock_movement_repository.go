package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación en memoria del kardex.
type StockMovementRepo struct {
	store *Store
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(store *Store) *StockMovementRepo {
	return &StockMovementRepo{store: store}
}

// Create asigna el consecutivo y agrega el movimiento.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	movement.Seq = r.store.nextSeq()
	r.store.movements = append(r.store.movements, *movement)
	return nil
}

// GetByID busca por id; nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for i := range r.store.movements {
		if r.store.movements[i].ID == id {
			m := r.store.movements[i]
			return &m, nil
		}
	}
	return nil, nil
}

// LockPair no-op: el TxRunner en memoria serializa todas las unidades de
// trabajo con un único mutex.
func (r *StockMovementRepo) LockPair(companyID, productID, warehouseID string) error {
	return nil
}

// pairMovements devuelve copias de los movimientos de la pareja que cumplen
// el filtro, en orden total.
func (r *StockMovementRepo) pairMovements(companyID, productID, warehouseID string, keep func(*entity.StockMovement) bool) []entity.StockMovement {
	var out []entity.StockMovement
	for i := range r.store.movements {
		m := &r.store.movements[i]
		if m.CompanyID == companyID && m.ProductID == productID && m.WarehouseID == warehouseID && keep(m) {
			out = append(out, *m)
		}
	}
	sortTotalOrder(out)
	return out
}

func toPointers(movements []entity.StockMovement) []*entity.StockMovement {
	out := make([]*entity.StockMovement, len(movements))
	for i := range movements {
		out[i] = &movements[i]
	}
	return out
}

// ListForReplay devuelve el corte con fecha >= from, en orden total.
func (r *StockMovementRepo) ListForReplay(companyID, productID, warehouseID string, from time.Time) ([]*entity.StockMovement, error) {
	return toPointers(r.pairMovements(companyID, productID, warehouseID, func(m *entity.StockMovement) bool {
		return !m.Date.Before(from)
	})), nil
}

// ListBefore devuelve el tramo con fecha < cutoff, en orden total.
func (r *StockMovementRepo) ListBefore(companyID, productID, warehouseID string, cutoff time.Time) ([]*entity.StockMovement, error) {
	return toPointers(r.pairMovements(companyID, productID, warehouseID, func(m *entity.StockMovement) bool {
		return m.Date.Before(cutoff)
	})), nil
}

// LastBefore devuelve el último movimiento estrictamente anterior a cutoff.
func (r *StockMovementRepo) LastBefore(companyID, productID, warehouseID string, cutoff time.Time) (*entity.StockMovement, error) {
	movements := r.pairMovements(companyID, productID, warehouseID, func(m *entity.StockMovement) bool {
		return m.Date.Before(cutoff)
	})
	if len(movements) == 0 {
		return nil, nil
	}
	last := movements[len(movements)-1]
	return &last, nil
}

// BalanceAsOf suma entradas menos salidas hasta la fecha inclusive.
func (r *StockMovementRepo) BalanceAsOf(companyID, productID, warehouseID string, date time.Time) (decimal.Decimal, error) {
	balance := decimal.Zero
	for i := range r.store.movements {
		m := &r.store.movements[i]
		if m.CompanyID == companyID && m.ProductID == productID && m.WarehouseID == warehouseID && !m.Date.After(date) {
			balance = balance.Add(m.QuantityIn).Sub(m.QuantityOut)
		}
	}
	return balance, nil
}

// UpdateCosting reescribe los campos de costeo del movimiento por Seq.
func (r *StockMovementRepo) UpdateCosting(movement *entity.StockMovement) error {
	for i := range r.store.movements {
		if r.store.movements[i].Seq == movement.Seq {
			r.store.movements[i].UnitCost = movement.UnitCost
			r.store.movements[i].TotalCost = movement.TotalCost
			r.store.movements[i].BalanceQuantity = movement.BalanceQuantity
			r.store.movements[i].BalanceValue = movement.BalanceValue
			return nil
		}
	}
	return domain.ErrNotFound
}

// ListPairs devuelve las parejas con movimientos de la empresa.
func (r *StockMovementRepo) ListPairs(companyID string) ([]entity.Pair, error) {
	set := make(entity.PairSet)
	for i := range r.store.movements {
		m := &r.store.movements[i]
		if m.CompanyID == companyID {
			set.Add(m.ProductID, m.WarehouseID)
		}
	}
	return set.Pairs(), nil
}

// ListSlice devuelve los movimientos de la pareja en [from, to], orden total.
func (r *StockMovementRepo) ListSlice(companyID, productID, warehouseID string, from, to time.Time) ([]*entity.StockMovement, error) {
	return toPointers(r.pairMovements(companyID, productID, warehouseID, func(m *entity.StockMovement) bool {
		return !m.Date.Before(from) && !m.Date.After(to)
	})), nil
}

// ListByDocument devuelve los movimientos del documento en orden de registro.
func (r *StockMovementRepo) ListByDocument(documentID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range r.store.movements {
		if r.store.movements[i].DocumentID == documentID {
			m := r.store.movements[i]
			out = append(out, &m)
		}
	}
	return out, nil
}

// ListByLine devuelve los movimientos de la línea en orden de registro.
func (r *StockMovementRepo) ListByLine(lineID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range r.store.movements {
		if r.store.movements[i].LineID == lineID {
			m := r.store.movements[i]
			out = append(out, &m)
		}
	}
	return out, nil
}
