package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/domain/valuation"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// RecalculateCompanyUseCase recalcula desde cero todo el kardex de una
// empresa. Es el punto de entrada de reparación de datos: se usa tras cambiar
// la política de valuación o ante cualquier sospecha de saldos corruptos.
type RecalculateCompanyUseCase struct {
	txRunner    TxRunner
	companyRepo repository.CompanyRepository
	recalc      *Recalculator
	log         *logger.Logger
}

// NewRecalculateCompanyUseCase construye el caso de uso.
func NewRecalculateCompanyUseCase(txRunner TxRunner, companyRepo repository.CompanyRepository, recalc *Recalculator, log *logger.Logger) *RecalculateCompanyUseCase {
	return &RecalculateCompanyUseCase{txRunner: txRunner, companyRepo: companyRepo, recalc: recalc, log: log}
}

// Execute reproduce la historia completa de cada pareja (producto, bodega) de
// la empresa, despachando según su política configurada, en una sola
// transacción.
func (uc *RecalculateCompanyUseCase) Execute(ctx context.Context, companyID string) ([]valuation.Warning, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	start := time.Now()
	var warnings []valuation.Warning
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		_ repository.DocumentRepository,
		_ repository.AccountingPeriodRepository,
	) error {
		pairs, err := movRepo.ListPairs(companyID)
		if err != nil {
			return err
		}
		for _, pair := range pairs {
			if err := movRepo.LockPair(companyID, pair.ProductID, pair.WarehouseID); err != nil {
				return err
			}
		}
		// Corte en el origen de los tiempos: se reproduce todo.
		warnings, err = uc.recalc.Recalculate(movRepo, companyID, company.ValuationPolicy, pairs, time.Time{})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", companyID).
		Str("policy", company.ValuationPolicy).
		Dur("elapsed", time.Since(start)).
		Int("warnings", len(warnings)).
		Msg("recálculo global completado")
	return warnings, nil
}
