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

// EditDocument reconcilia el conjunto completo de líneas nuevo contra las
// líneas persistidas del documento:
//
//   - Removidas: se reversa cada movimiento de la línea con un movimiento
//     sintético que re-acredita exactamente lo que el original debitó, y la
//     línea persistida se elimina. La historia nunca se borra sin su reversa.
//   - Agregadas: línea y movimiento nuevos.
//   - Modificadas (misma pareja): un movimiento delta de ajuste con exactamente
//     la diferencia de cantidad/valor. Cambio de producto o bodega se trata
//     como remoción más adición.
//
// Toda pareja tocada se recalcula desde la fecha del documento, dentro de la
// misma transacción que las escrituras.
func (uc *UseCase) EditDocument(ctx context.Context, documentID string, req dto.EditDocumentRequest) (*dto.CommittedDocumentResponse, error) {
	if documentID == "" || len(req.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var warnings []valuation.Warning
	resp := &dto.CommittedDocumentResponse{}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		docRepo repository.DocumentRepository,
		periodRepo repository.AccountingPeriodRepository,
	) error {
		doc, err := docRepo.GetByID(documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		// Los ajustes son de una sola línea: se corrigen eliminando y
		// re-registrando, no por esta vía.
		if doc.Kind == entity.DocumentKindAdjustment {
			return domain.ErrInvalidInput
		}

		company, err := uc.loadCompany(doc.CompanyID)
		if err != nil {
			return err
		}
		if err := uc.validateLines(doc.CompanyID, req.Lines); err != nil {
			return err
		}
		if err := checkPeriod(periodRepo, doc.CompanyID, doc.Date); err != nil {
			return err
		}

		persisted, err := docRepo.ListLines(doc.ID)
		if err != nil {
			return err
		}
		diff := DiffLines(persisted, req.Lines)

		// La base del prorrateo se fija una sola vez sobre el conjunto final
		// de líneas enviado, nunca contra un blanco móvil.
		additional := doc.AdditionalCost
		if doc.Kind == entity.DocumentKindSale {
			additional = decimal.Zero
		}
		priced := PriceLines(req.Lines, doc.PricesIncludeTax, additional)

		pairs := make(entity.PairSet)
		for _, line := range diff.Removed {
			pairs.Add(line.ProductID, line.WarehouseID)
		}
		for _, i := range diff.Added {
			pairs.Add(req.Lines[i].ProductID, req.Lines[i].WarehouseID)
		}
		for _, ch := range diff.Modified {
			pairs.Add(ch.Old.ProductID, ch.Old.WarehouseID)
		}
		if err := lockPairs(movRepo, doc.CompanyID, pairs.Pairs()); err != nil {
			return err
		}

		if doc.Kind == entity.DocumentKindSale {
			if err := uc.checkSaleDelta(movRepo, doc, diff, req.Lines); err != nil {
				return err
			}
		}

		for _, line := range diff.Removed {
			if err := reverseLine(movRepo, line.ID, now); err != nil {
				return err
			}
			if err := docRepo.DeleteLine(line.ID); err != nil {
				return err
			}
		}

		total := decimal.Zero
		for _, i := range diff.Added {
			line, err := uc.appendLine(movRepo, docRepo, doc, priced[i], now)
			if err != nil {
				return err
			}
			total = total.Add(lineAmount(doc, line))
			resp.Lines = append(resp.Lines, committedLine(line))
		}

		for _, ch := range diff.Modified {
			line, err := uc.applyLineDelta(movRepo, docRepo, doc, ch.Old, priced[ch.Index], now)
			if err != nil {
				return err
			}
			total = total.Add(lineAmount(doc, line))
			resp.Lines = append(resp.Lines, committedLine(line))
		}

		doc.UpdatedAt = now
		if err := docRepo.Update(doc); err != nil {
			return err
		}

		resp.DocumentID = doc.ID
		resp.Kind = doc.Kind
		resp.Number = doc.Number
		resp.Date = doc.Date
		resp.Total = total

		warnings, err = uc.recalc.Recalculate(movRepo, doc.CompanyID, company.ValuationPolicy, pairs.Pairs(), doc.Date)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp.Warnings = warningDTOs(warnings)
	return resp, nil
}

// checkSaleDelta verifica que el incremento neto de salida por pareja no
// exceda la existencia a la fecha del documento. Las reversas de líneas
// removidas cuentan a favor.
func (uc *UseCase) checkSaleDelta(movRepo repository.StockMovementRepository, doc *entity.Document, diff LineDiff, submitted []dto.DocumentLineInput) error {
	delta := make(map[entity.Pair]decimal.Decimal)
	for _, line := range diff.Removed {
		key := entity.Pair{ProductID: line.ProductID, WarehouseID: line.WarehouseID}
		delta[key] = delta[key].Sub(line.Quantity)
	}
	for _, i := range diff.Added {
		in := submitted[i]
		key := entity.Pair{ProductID: in.ProductID, WarehouseID: in.WarehouseID}
		delta[key] = delta[key].Add(in.Quantity.Round(valuation.QuantityScale))
	}
	for _, ch := range diff.Modified {
		key := entity.Pair{ProductID: ch.Old.ProductID, WarehouseID: ch.Old.WarehouseID}
		newQty := submitted[ch.Index].Quantity.Round(valuation.QuantityScale)
		delta[key] = delta[key].Add(newQty.Sub(ch.Old.Quantity))
	}

	for key, extra := range delta {
		if !extra.IsPositive() {
			continue
		}
		balance, err := movRepo.BalanceAsOf(doc.CompanyID, key.ProductID, key.WarehouseID, doc.Date)
		if err != nil {
			return err
		}
		if extra.GreaterThan(balance) {
			return domain.ErrInsufficientStock
		}
	}
	return nil
}

// reverseLine crea la reversa de cada movimiento de la línea (el original y
// sus deltas acumulados), cancelando exactamente su efecto neto.
func reverseLine(movRepo repository.StockMovementRepository, lineID string, now time.Time) error {
	movements, err := movRepo.ListByLine(lineID)
	if err != nil {
		return err
	}
	for _, m := range movements {
		if err := movRepo.Create(m.NewReversal(newID(), now)); err != nil {
			return err
		}
	}
	return nil
}

// appendLine crea una línea nueva con su movimiento (entrada en compras,
// salida en ventas).
func (uc *UseCase) appendLine(
	movRepo repository.StockMovementRepository,
	docRepo repository.DocumentRepository,
	doc *entity.Document,
	p PricedLine,
	now time.Time,
) (*entity.DocumentLine, error) {
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
	mov := &entity.StockMovement{
		ID:            newID(),
		CompanyID:     doc.CompanyID,
		ProductID:     line.ProductID,
		WarehouseID:   line.WarehouseID,
		DocumentKind:  doc.Kind,
		DocumentID:    doc.ID,
		LineID:        line.ID,
		CounterpartID: doc.CounterpartID,
		Date:          doc.Date,
		RegisteredAt:  now,
	}
	if doc.Kind == entity.DocumentKindPurchase {
		line.TotalCost = p.TotalCost
		line.EffectiveUnitCost = p.EffectiveUnitCost
		mov.Kind = entity.MovementKindPurchase
		mov.QuantityIn = line.Quantity
		mov.UnitCost = p.EffectiveUnitCost
		mov.TotalCost = p.TotalCost
	} else {
		mov.Kind = entity.MovementKindSale
		mov.QuantityOut = line.Quantity
	}
	if err := docRepo.CreateLine(line); err != nil {
		return nil, err
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return line, nil
}

// applyLineDelta reconcilia una línea modificada sobre la misma pareja con un
// movimiento delta de ajuste. Cuando la diferencia no es representable como
// movimiento de un solo lado (cantidad sin cambio con valor distinto, o
// signos cruzados), la línea se reversa y se recrea: es la única forma que
// conserva el invariante "una entrada o una salida, nunca ambas".
func (uc *UseCase) applyLineDelta(
	movRepo repository.StockMovementRepository,
	docRepo repository.DocumentRepository,
	doc *entity.Document,
	old *entity.DocumentLine,
	p PricedLine,
	now time.Time,
) (*entity.DocumentLine, error) {
	newQty := p.Input.Quantity.Round(valuation.QuantityScale)
	dQty := newQty.Sub(old.Quantity)

	if doc.Kind == entity.DocumentKindPurchase {
		dValue := p.TotalCost.Sub(old.TotalCost)

		switch {
		case dQty.IsZero() && dValue.IsZero():
			// Sin efecto sobre el kardex; solo se refrescan los campos.

		case dQty.IsZero() || (dQty.Sign() != dValue.Sign() && !dValue.IsZero()):
			if err := reverseLine(movRepo, old.ID, now); err != nil {
				return nil, err
			}
			mov := &entity.StockMovement{
				ID:            newID(),
				CompanyID:     doc.CompanyID,
				ProductID:     old.ProductID,
				WarehouseID:   old.WarehouseID,
				Kind:          entity.MovementKindPurchase,
				DocumentKind:  doc.Kind,
				DocumentID:    doc.ID,
				LineID:        old.ID,
				CounterpartID: doc.CounterpartID,
				Date:          doc.Date,
				RegisteredAt:  now,
				QuantityIn:    newQty,
				UnitCost:      p.EffectiveUnitCost,
				TotalCost:     p.TotalCost,
			}
			if err := movRepo.Create(mov); err != nil {
				return nil, err
			}

		default:
			mov := &entity.StockMovement{
				ID:            newID(),
				CompanyID:     doc.CompanyID,
				ProductID:     old.ProductID,
				WarehouseID:   old.WarehouseID,
				DocumentKind:  doc.Kind,
				DocumentID:    doc.ID,
				LineID:        old.ID,
				CounterpartID: doc.CounterpartID,
				Date:          doc.Date,
				RegisteredAt:  now,
			}
			if dQty.IsPositive() {
				mov.Kind = entity.MovementKindAdjustmentIn
				mov.QuantityIn = dQty
				mov.UnitCost = dValue.DivRound(dQty, valuation.UnitCostScale)
				mov.TotalCost = dValue
			} else {
				mov.Kind = entity.MovementKindAdjustmentOut
				mov.QuantityOut = dQty.Abs()
			}
			if err := movRepo.Create(mov); err != nil {
				return nil, err
			}
		}

		old.TotalCost = p.TotalCost
		old.EffectiveUnitCost = p.EffectiveUnitCost
	} else if !dQty.IsZero() {
		mov := &entity.StockMovement{
			ID:            newID(),
			CompanyID:     doc.CompanyID,
			ProductID:     old.ProductID,
			WarehouseID:   old.WarehouseID,
			DocumentKind:  doc.Kind,
			DocumentID:    doc.ID,
			LineID:        old.ID,
			CounterpartID: doc.CounterpartID,
			Date:          doc.Date,
			RegisteredAt:  now,
		}
		if dQty.IsPositive() {
			mov.Kind = entity.MovementKindAdjustmentOut
			mov.QuantityOut = dQty
		} else {
			// Disminución de venta: re-entrada al costo unitario vigente del
			// movimiento original.
			unit := lineUnitCost(movRepo, old.ID)
			mov.Kind = entity.MovementKindAdjustmentIn
			mov.QuantityIn = dQty.Abs()
			mov.UnitCost = unit
			mov.TotalCost = dQty.Abs().Mul(unit).Round(valuation.MoneyScale)
		}
		if err := movRepo.Create(mov); err != nil {
			return nil, err
		}
	}

	old.Quantity = newQty
	old.UnitPrice = p.Input.UnitPrice
	old.TaxRate = p.Input.TaxRate
	old.Subtotal = p.Subtotal
	if err := docRepo.UpdateLine(old); err != nil {
		return nil, err
	}
	return old, nil
}

// lineUnitCost devuelve el costo unitario vigente del movimiento original de
// la línea, o cero si no se encuentra.
func lineUnitCost(movRepo repository.StockMovementRepository, lineID string) decimal.Decimal {
	movements, err := movRepo.ListByLine(lineID)
	if err != nil || len(movements) == 0 {
		return decimal.Zero
	}
	return movements[0].UnitCost
}

// lineAmount devuelve el monto de la línea que suma al total del documento:
// costo total en compras, subtotal en ventas.
func lineAmount(doc *entity.Document, line *entity.DocumentLine) decimal.Decimal {
	if doc.Kind == entity.DocumentKindPurchase {
		return line.TotalCost
	}
	return line.Subtotal
}

func committedLine(line *entity.DocumentLine) dto.CommittedLineDTO {
	return dto.CommittedLineDTO{
		LineID:            line.ID,
		ProductID:         line.ProductID,
		WarehouseID:       line.WarehouseID,
		Quantity:          line.Quantity,
		Subtotal:          line.Subtotal,
		TotalCost:         line.TotalCost,
		EffectiveUnitCost: line.EffectiveUnitCost,
	}
}
