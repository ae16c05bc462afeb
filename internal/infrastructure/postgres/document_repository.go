package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de documentos y líneas sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create persiste el encabezado.
func (r *DocumentRepo) Create(doc *entity.Document) error {
	query := `
		INSERT INTO documents (id, company_id, kind, number, counterpart_id, date,
			prices_include_tax, additional_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.CompanyID, doc.Kind, doc.Number, nullable(doc.CounterpartID), doc.Date,
		doc.PricesIncludeTax, doc.AdditionalCost, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetByID obtiene el encabezado por ID; nil si no existe.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := `
		SELECT id, company_id, kind, number, counterpart_id, date,
			prices_include_tax, additional_cost, created_at, updated_at
		FROM documents WHERE id = $1`
	var doc entity.Document
	var counterpartID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&doc.ID, &doc.CompanyID, &doc.Kind, &doc.Number, &counterpartID, &doc.Date,
		&doc.PricesIncludeTax, &doc.AdditionalCost, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if counterpartID != nil {
		doc.CounterpartID = *counterpartID
	}
	return &doc, nil
}

// Update reescribe el encabezado.
func (r *DocumentRepo) Update(doc *entity.Document) error {
	query := `
		UPDATE documents SET number = $2, counterpart_id = $3, date = $4,
			prices_include_tax = $5, additional_cost = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Number, nullable(doc.CounterpartID), doc.Date,
		doc.PricesIncludeTax, doc.AdditionalCost, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el encabezado (las líneas se eliminan por aparte; los
// movimientos del kardex nunca).
func (r *DocumentRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateLine persiste una línea.
func (r *DocumentRepo) CreateLine(line *entity.DocumentLine) error {
	query := `
		INSERT INTO document_lines (id, document_id, product_id, warehouse_id,
			quantity, unit_price, tax_rate, subtotal, total_cost, effective_unit_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.DocumentID, line.ProductID, line.WarehouseID,
		line.Quantity, line.UnitPrice, line.TaxRate, line.Subtotal,
		line.TotalCost, line.EffectiveUnitCost, line.CreatedAt)
	if err != nil {
		return fmt.Errorf("create document line: %w", err)
	}
	return nil
}

// ListLines devuelve las líneas del documento en orden de creación.
func (r *DocumentRepo) ListLines(documentID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT id, document_id, product_id, warehouse_id, quantity, unit_price,
			tax_rate, subtotal, total_cost, effective_unit_cost, created_at
		FROM document_lines WHERE document_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.DocumentLine
	for rows.Next() {
		var line entity.DocumentLine
		if err := rows.Scan(&line.ID, &line.DocumentID, &line.ProductID, &line.WarehouseID,
			&line.Quantity, &line.UnitPrice, &line.TaxRate, &line.Subtotal,
			&line.TotalCost, &line.EffectiveUnitCost, &line.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		list = append(list, &line)
	}
	return list, rows.Err()
}

// UpdateLine reescribe una línea.
func (r *DocumentRepo) UpdateLine(line *entity.DocumentLine) error {
	query := `
		UPDATE document_lines SET quantity = $2, unit_price = $3, tax_rate = $4,
			subtotal = $5, total_cost = $6, effective_unit_cost = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		line.ID, line.Quantity, line.UnitPrice, line.TaxRate,
		line.Subtotal, line.TotalCost, line.EffectiveUnitCost)
	if err != nil {
		return fmt.Errorf("update document line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLine elimina una línea.
func (r *DocumentRepo) DeleteLine(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM document_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
