package document

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// DeleteDocument elimina un documento: reversa cada movimiento que el
// documento originó (incluidas las reversas y deltas de ediciones previas,
// cuyo efecto neto queda cancelado), elimina las líneas y el encabezado, y
// recalcula las parejas tocadas. Los movimientos del kardex permanecen: la
// historia financiera nunca se borra, se cancela con reversas.
func (uc *UseCase) DeleteDocument(ctx context.Context, documentID string) error {
	if documentID == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
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
		company, err := uc.loadCompany(doc.CompanyID)
		if err != nil {
			return err
		}
		if err := checkPeriod(periodRepo, doc.CompanyID, doc.Date); err != nil {
			return err
		}

		movements, err := movRepo.ListByDocument(doc.ID)
		if err != nil {
			return err
		}

		pairs := make(entity.PairSet)
		for _, m := range movements {
			pairs.Add(m.ProductID, m.WarehouseID)
		}
		if err := lockPairs(movRepo, doc.CompanyID, pairs.Pairs()); err != nil {
			return err
		}

		for _, m := range movements {
			if err := movRepo.Create(m.NewReversal(newID(), now)); err != nil {
				return err
			}
		}

		lines, err := docRepo.ListLines(doc.ID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := docRepo.DeleteLine(line.ID); err != nil {
				return err
			}
		}
		if err := docRepo.Delete(doc.ID); err != nil {
			return err
		}

		_, err = uc.recalc.Recalculate(movRepo, doc.CompanyID, company.ValuationPolicy, pairs.Pairs(), doc.Date)
		return err
	})
}
