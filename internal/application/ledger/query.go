package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// QueryUseCase expone el kardex anotado a la capa de reportes. Solo lectura:
// nunca muta y no produce errores de dominio más allá de "no encontrado".
type QueryUseCase struct {
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
	whRepo      repository.WarehouseRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository, whRepo repository.WarehouseRepository) *QueryUseCase {
	return &QueryUseCase{movRepo: movRepo, productRepo: productRepo, whRepo: whRepo}
}

// GetLedgerSlice devuelve los movimientos anotados de la pareja en el rango
// [date_from, date_to], en el orden total del kardex.
func (uc *QueryUseCase) GetLedgerSlice(ctx context.Context, req dto.LedgerSliceRequest) ([]dto.LedgerMovementDTO, error) {
	if req.CompanyID == "" || req.ProductID == "" || req.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != req.CompanyID {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.whRepo.GetByID(req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil || wh.CompanyID != req.CompanyID {
		return nil, domain.ErrNotFound
	}

	// date_to vacío significa sin límite superior.
	to := req.DateTo
	if to.IsZero() {
		to = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	}

	movements, err := uc.movRepo.ListSlice(req.CompanyID, req.ProductID, req.WarehouseID, req.DateFrom, to)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LedgerMovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.LedgerMovementDTO{
			Seq:             m.Seq,
			ID:              m.ID,
			Kind:            m.Kind,
			DocumentKind:    m.DocumentKind,
			DocumentID:      m.DocumentID,
			CounterpartID:   m.CounterpartID,
			Date:            m.Date,
			QuantityIn:      m.QuantityIn,
			QuantityOut:     m.QuantityOut,
			UnitCost:        m.UnitCost,
			TotalCost:       m.TotalCost,
			BalanceQuantity: m.BalanceQuantity,
			BalanceValue:    m.BalanceValue,
		})
	}
	return out, nil
}
