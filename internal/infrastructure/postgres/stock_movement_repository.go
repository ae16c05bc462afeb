package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del kardex sobre PostgreSQL (pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `seq, id, company_id, product_id, warehouse_id, kind,
	document_kind, document_id, line_id, counterpart_id, reversal_of_id, date,
	registered_at, quantity_in, quantity_out, unit_cost, total_cost,
	balance_quantity, balance_value`

// Create persiste el movimiento; el consecutivo lo asigna la secuencia de la
// tabla y se devuelve en movement.Seq.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, company_id, product_id, warehouse_id, kind,
			document_kind, document_id, line_id, counterpart_id, reversal_of_id,
			date, registered_at, quantity_in, quantity_out, unit_cost, total_cost,
			balance_quantity, balance_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		movement.ID, movement.CompanyID, movement.ProductID, movement.WarehouseID, movement.Kind,
		movement.DocumentKind, movement.DocumentID, nullable(movement.LineID), nullable(movement.CounterpartID),
		nullable(movement.ReversalOfID), movement.Date, movement.RegisteredAt,
		movement.QuantityIn, movement.QuantityOut, movement.UnitCost, movement.TotalCost,
		movement.BalanceQuantity, movement.BalanceValue,
	).Scan(&movement.Seq)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// LockPair toma un advisory lock transaccional por pareja: dos documentos
// concurrentes sobre la misma pareja quedan serializados hasta el commit.
func (r *StockMovementRepo) LockPair(companyID, productID, warehouseID string) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended($1 || '|' || $2 || '|' || $3, 0))`
	if _, err := r.q.Exec(context.Background(), query, companyID, productID, warehouseID); err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}
	return nil
}

// ListForReplay devuelve el corte (fecha >= from) de la pareja, en el orden
// total del kardex: (fecha, consecutivo).
func (r *StockMovementRepo) ListForReplay(companyID, productID, warehouseID string, from time.Time) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3 AND date >= $4
		ORDER BY date, seq`
	return r.list(query, companyID, productID, warehouseID, from)
}

// ListBefore devuelve el tramo anterior al corte (fecha < cutoff), orden total.
func (r *StockMovementRepo) ListBefore(companyID, productID, warehouseID string, cutoff time.Time) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3 AND date < $4
		ORDER BY date, seq`
	return r.list(query, companyID, productID, warehouseID, cutoff)
}

// LastBefore devuelve el último movimiento estrictamente anterior al corte.
func (r *StockMovementRepo) LastBefore(companyID, productID, warehouseID string, cutoff time.Time) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3 AND date < $4
		ORDER BY date DESC, seq DESC
		LIMIT 1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, companyID, productID, warehouseID, cutoff))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last before: %w", err)
	}
	return m, nil
}

// BalanceAsOf existencia (Σ entradas − Σ salidas) hasta la fecha inclusive,
// calculada desde las cantidades, no desde las anotaciones.
func (r *StockMovementRepo) BalanceAsOf(companyID, productID, warehouseID string, date time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity_in - quantity_out), 0)
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3 AND date <= $4`
	var balance decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, companyID, productID, warehouseID, date).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance as of: %w", err)
	}
	return balance, nil
}

// UpdateCosting reescribe los campos de costeo del movimiento (por Seq).
func (r *StockMovementRepo) UpdateCosting(movement *entity.StockMovement) error {
	query := `
		UPDATE stock_movements
		SET unit_cost = $2, total_cost = $3, balance_quantity = $4, balance_value = $5
		WHERE seq = $1`
	tag, err := r.q.Exec(context.Background(), query,
		movement.Seq, movement.UnitCost, movement.TotalCost, movement.BalanceQuantity, movement.BalanceValue)
	if err != nil {
		return fmt.Errorf("update costing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPairs devuelve las parejas (producto, bodega) con movimientos.
func (r *StockMovementRepo) ListPairs(companyID string) ([]entity.Pair, error) {
	query := `
		SELECT DISTINCT product_id, warehouse_id
		FROM stock_movements WHERE company_id = $1`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	defer rows.Close()
	var pairs []entity.Pair
	for rows.Next() {
		var p entity.Pair
		if err := rows.Scan(&p.ProductID, &p.WarehouseID); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// ListSlice devuelve los movimientos de la pareja en [from, to], orden total.
func (r *StockMovementRepo) ListSlice(companyID, productID, warehouseID string, from, to time.Time) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND date >= $4 AND date <= $5
		ORDER BY date, seq`
	rows, err := r.q.Query(context.Background(), query, companyID, productID, warehouseID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list slice: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByDocument devuelve los movimientos del documento en orden de registro.
func (r *StockMovementRepo) ListByDocument(documentID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE document_id = $1 ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list by document: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByLine devuelve los movimientos de la línea en orden de registro.
func (r *StockMovementRepo) ListByLine(lineID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE line_id = $1 ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, lineID)
	if err != nil {
		return nil, fmt.Errorf("list by line: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var lineID, counterpartID, reversalOfID *string
	err := row.Scan(
		&m.Seq, &m.ID, &m.CompanyID, &m.ProductID, &m.WarehouseID, &m.Kind,
		&m.DocumentKind, &m.DocumentID, &lineID, &counterpartID, &reversalOfID,
		&m.Date, &m.RegisteredAt,
		&m.QuantityIn, &m.QuantityOut, &m.UnitCost, &m.TotalCost,
		&m.BalanceQuantity, &m.BalanceValue,
	)
	if err != nil {
		return nil, err
	}
	if lineID != nil {
		m.LineID = *lineID
	}
	if counterpartID != nil {
		m.CounterpartID = *counterpartID
	}
	if reversalOfID != nil {
		m.ReversalOfID = *reversalOfID
	}
	return &m, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// nullable convierte cadena vacía en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
