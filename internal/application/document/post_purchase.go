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

// PostPurchase registra una compra: costea las líneas (precio sin IVA más
// prorrateo del costo adicional), crea el documento, sus líneas y un
// movimiento de entrada por línea, y recalcula cada pareja tocada desde la
// fecha del documento. Todo dentro de una transacción.
func (uc *UseCase) PostPurchase(ctx context.Context, req dto.PostDocumentRequest) (*dto.CommittedDocumentResponse, error) {
	if req.CompanyID == "" || req.Date.IsZero() || req.AdditionalCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.loadCompany(req.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := uc.validateLines(req.CompanyID, req.Lines); err != nil {
		return nil, err
	}

	// La base del prorrateo se fija una sola vez sobre el conjunto final.
	priced := PriceLines(req.Lines, req.PricesIncludeTax, req.AdditionalCost)
	now := time.Now()

	doc := &entity.Document{
		ID:               newID(),
		CompanyID:        req.CompanyID,
		Kind:             entity.DocumentKindPurchase,
		Number:           req.Number,
		CounterpartID:    req.CounterpartID,
		Date:             req.Date,
		PricesIncludeTax: req.PricesIncludeTax,
		AdditionalCost:   req.AdditionalCost,
		CreatedAt:        now,
		UpdatedAt:        now,
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

		pairs := make(entity.PairSet)
		for _, p := range priced {
			pairs.Add(p.Input.ProductID, p.Input.WarehouseID)
		}
		if err := lockPairs(movRepo, req.CompanyID, pairs.Pairs()); err != nil {
			return err
		}

		if err := docRepo.Create(doc); err != nil {
			return err
		}

		total := decimal.Zero
		for _, p := range priced {
			line := &entity.DocumentLine{
				ID:                newID(),
				DocumentID:        doc.ID,
				ProductID:         p.Input.ProductID,
				WarehouseID:       p.Input.WarehouseID,
				Quantity:          p.Input.Quantity.Round(valuation.QuantityScale),
				UnitPrice:         p.Input.UnitPrice,
				TaxRate:           p.Input.TaxRate,
				Subtotal:          p.Subtotal,
				TotalCost:         p.TotalCost,
				EffectiveUnitCost: p.EffectiveUnitCost,
				CreatedAt:         now,
			}
			if err := docRepo.CreateLine(line); err != nil {
				return err
			}

			mov := &entity.StockMovement{
				ID:            newID(),
				CompanyID:     req.CompanyID,
				ProductID:     line.ProductID,
				WarehouseID:   line.WarehouseID,
				Kind:          entity.MovementKindPurchase,
				DocumentKind:  doc.Kind,
				DocumentID:    doc.ID,
				LineID:        line.ID,
				CounterpartID: req.CounterpartID,
				Date:          req.Date,
				RegisteredAt:  now,
				QuantityIn:    line.Quantity,
				UnitCost:      line.EffectiveUnitCost,
				TotalCost:     line.TotalCost,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}

			total = total.Add(line.TotalCost)
			resp.Lines = append(resp.Lines, dto.CommittedLineDTO{
				LineID:            line.ID,
				ProductID:         line.ProductID,
				WarehouseID:       line.WarehouseID,
				Quantity:          line.Quantity,
				Subtotal:          line.Subtotal,
				TotalCost:         line.TotalCost,
				EffectiveUnitCost: line.EffectiveUnitCost,
			})
		}
		resp.Total = total

		warnings, err = uc.recalc.Recalculate(movRepo, req.CompanyID, company.ValuationPolicy, pairs.Pairs(), req.Date)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp.Warnings = warningDTOs(warnings)
	return resp, nil
}
