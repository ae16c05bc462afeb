package document

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/domain/valuation"
)

// PostAdjustment registra un ajuste de inventario de una sola línea. El signo
// de la cantidad define la dirección: positiva crea una entrada al costo
// unitario dado (autoritativo), negativa una salida cuyo costo deriva el
// motor.
func (uc *UseCase) PostAdjustment(ctx context.Context, req dto.PostAdjustmentRequest) (*dto.CommittedDocumentResponse, error) {
	if req.CompanyID == "" || req.Date.IsZero() || req.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	inflow := req.Quantity.IsPositive()
	if inflow && req.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.loadCompany(req.CompanyID)
	if err != nil {
		return nil, err
	}

	qty := req.Quantity.Abs().Round(valuation.QuantityScale)
	line := dto.DocumentLineInput{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Quantity:    qty,
		UnitPrice:   req.UnitCost,
	}
	if err := uc.validateLines(req.CompanyID, []dto.DocumentLineInput{line}); err != nil {
		return nil, err
	}

	now := time.Now()
	unitCost := req.UnitCost.Round(valuation.UnitCostScale)
	totalCost := decimal.Zero
	if inflow {
		totalCost = qty.Mul(unitCost).Round(valuation.MoneyScale)
	}

	doc := &entity.Document{
		ID:        newID(),
		CompanyID: req.CompanyID,
		Kind:      entity.DocumentKindAdjustment,
		Number:    req.Number,
		Date:      req.Date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var warnings []valuation.Warning
	resp := &dto.CommittedDocumentResponse{DocumentID: doc.ID, Kind: doc.Kind, Number: doc.Number, Date: doc.Date}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		docRepo repository.DocumentRepository,
		periodRepo repository.AccountingPeriodRepository,
	) error {
		if err := checkPeriod(periodRepo, req.CompanyID, req.Date); err != nil {
			return err
		}
		if err := movRepo.LockPair(req.CompanyID, req.ProductID, req.WarehouseID); err != nil {
			return err
		}

		if err := docRepo.Create(doc); err != nil {
			return err
		}
		docLine := &entity.DocumentLine{
			ID:                newID(),
			DocumentID:        doc.ID,
			ProductID:         req.ProductID,
			WarehouseID:       req.WarehouseID,
			Quantity:          qty,
			UnitPrice:         req.UnitCost,
			Subtotal:          totalCost,
			TotalCost:         totalCost,
			EffectiveUnitCost: unitCost,
			CreatedAt:         now,
		}
		if err := docRepo.CreateLine(docLine); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:           newID(),
			CompanyID:    req.CompanyID,
			ProductID:    req.ProductID,
			WarehouseID:  req.WarehouseID,
			DocumentKind: doc.Kind,
			DocumentID:   doc.ID,
			LineID:       docLine.ID,
			Date:         req.Date,
			RegisteredAt: now,
		}
		if inflow {
			mov.Kind = entity.MovementKindAdjustmentIn
			mov.QuantityIn = qty
			mov.UnitCost = unitCost
			mov.TotalCost = totalCost
		} else {
			mov.Kind = entity.MovementKindAdjustmentOut
			mov.QuantityOut = qty
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}

		resp.Total = totalCost
		resp.Lines = []dto.CommittedLineDTO{{
			LineID:            docLine.ID,
			ProductID:         req.ProductID,
			WarehouseID:       req.WarehouseID,
			Quantity:          qty,
			Subtotal:          totalCost,
			TotalCost:         totalCost,
			EffectiveUnitCost: unitCost,
		}}

		pairs := []entity.Pair{{ProductID: req.ProductID, WarehouseID: req.WarehouseID}}
		warnings, err = uc.recalc.Recalculate(movRepo, req.CompanyID, company.ValuationPolicy, pairs, req.Date)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp.Warnings = warningDTOs(warnings)
	return resp, nil
}
