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

// PostSale registra una venta: verifica existencia suficiente a la fecha del
// documento para cada pareja referenciada (el documento se rechaza completo si
// una sola línea falla), crea el documento con un movimiento de salida por
// línea y recalcula. El costo de las salidas lo deriva el motor según la
// política; el llamador nunca lo aporta.
func (uc *UseCase) PostSale(ctx context.Context, req dto.PostDocumentRequest) (*dto.CommittedDocumentResponse, error) {
	if req.CompanyID == "" || req.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.loadCompany(req.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := uc.validateLines(req.CompanyID, req.Lines); err != nil {
		return nil, err
	}

	priced := PriceLines(req.Lines, req.PricesIncludeTax, decimal.Zero)
	now := time.Now()

	doc := &entity.Document{
		ID:               newID(),
		CompanyID:        req.CompanyID,
		Kind:             entity.DocumentKindSale,
		Number:           req.Number,
		CounterpartID:    req.CounterpartID,
		Date:             req.Date,
		PricesIncludeTax: req.PricesIncludeTax,
		AdditionalCost:   decimal.Zero,
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
		requested := make(map[entity.Pair]decimal.Decimal)
		for _, p := range priced {
			pairs.Add(p.Input.ProductID, p.Input.WarehouseID)
			key := entity.Pair{ProductID: p.Input.ProductID, WarehouseID: p.Input.WarehouseID}
			requested[key] = requested[key].Add(p.Input.Quantity.Round(valuation.QuantityScale))
		}
		if err := lockPairs(movRepo, req.CompanyID, pairs.Pairs()); err != nil {
			return err
		}

		// Suficiencia de existencia a la fecha del documento, por pareja.
		for key, qty := range requested {
			balance, err := movRepo.BalanceAsOf(req.CompanyID, key.ProductID, key.WarehouseID, req.Date)
			if err != nil {
				return err
			}
			if qty.GreaterThan(balance) {
				return domain.ErrInsufficientStock
			}
		}

		if err := docRepo.Create(doc); err != nil {
			return err
		}

		total := decimal.Zero
		for _, p := range priced {
			line := &entity.DocumentLine{
				ID:          newID(),
				DocumentID:  doc.ID,
				ProductID:   p.Input.ProductID,
				WarehouseID: p.Input.WarehouseID,
				Quantity:    p.Input.Quantity.Round(valuation.QuantityScale),
				UnitPrice:   p.Input.UnitPrice,
				TaxRate:     p.Input.TaxRate,
				Subtotal:    p.Subtotal,
				CreatedAt:   now,
			}
			if err := docRepo.CreateLine(line); err != nil {
				return err
			}

			mov := &entity.StockMovement{
				ID:            newID(),
				CompanyID:     req.CompanyID,
				ProductID:     line.ProductID,
				WarehouseID:   line.WarehouseID,
				Kind:          entity.MovementKindSale,
				DocumentKind:  doc.Kind,
				DocumentID:    doc.ID,
				LineID:        line.ID,
				CounterpartID: req.CounterpartID,
				Date:          req.Date,
				RegisteredAt:  now,
				QuantityOut:   line.Quantity,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}

			total = total.Add(line.Subtotal)
			resp.Lines = append(resp.Lines, dto.CommittedLineDTO{
				LineID:      line.ID,
				ProductID:   line.ProductID,
				WarehouseID: line.WarehouseID,
				Quantity:    line.Quantity,
				Subtotal:    line.Subtotal,
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
