package document

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/domain/valuation"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// UseCase coordina los documentos de negocio (compra, venta, ajuste):
// traduce un documento con líneas en mutaciones del kardex y solicitudes de
// recálculo, manteniendo los totales del documento consistentes. Cada
// operación corre completa dentro de una transacción del TxRunner.
type UseCase struct {
	txRunner      TxRunner
	companyRepo   repository.CompanyRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	recalc        *ledger.Recalculator
	log           *logger.Logger
}

// NewUseCase construye el coordinador de documentos.
func NewUseCase(
	txRunner TxRunner,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	recalc *ledger.Recalculator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		companyRepo:   companyRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		recalc:        recalc,
		log:           log,
	}
}

// loadCompany devuelve la empresa o ErrNotFound.
func (uc *UseCase) loadCompany(companyID string) (*entity.Company, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// validateLines verifica que cada línea tenga cantidad positiva y referencias
// a producto y bodega existentes de la empresa.
func (uc *UseCase) validateLines(companyID string, lines []dto.DocumentLineInput) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, in := range lines {
		if !in.Quantity.IsPositive() || in.UnitPrice.IsNegative() || in.TaxRate.IsNegative() {
			return domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.CompanyID != companyID {
			return domain.ErrNotFound
		}
		wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil || wh.CompanyID != companyID {
			return domain.ErrNotFound
		}
	}
	return nil
}

// checkPeriod verifica una sola vez por documento que el período contable de
// la fecha esté abierto.
func checkPeriod(periodRepo repository.AccountingPeriodRepository, companyID string, date time.Time) error {
	open, err := periodRepo.IsOpen(companyID, date)
	if err != nil {
		return err
	}
	if !open {
		return domain.ErrPeriodClosed
	}
	return nil
}

// lockPairs toma el lock de cada pareja afectada en orden determinista para
// evitar interbloqueos entre documentos concurrentes.
func lockPairs(movRepo repository.StockMovementRepository, companyID string, pairs []entity.Pair) error {
	sorted := make([]entity.Pair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProductID != sorted[j].ProductID {
			return sorted[i].ProductID < sorted[j].ProductID
		}
		return sorted[i].WarehouseID < sorted[j].WarehouseID
	})
	for _, p := range sorted {
		if err := movRepo.LockPair(companyID, p.ProductID, p.WarehouseID); err != nil {
			return err
		}
	}
	return nil
}

func newID() string { return uuid.New().String() }

// warningDTOs convierte advertencias del motor al DTO de respuesta.
func warningDTOs(warns []valuation.Warning) []dto.CostWarningDTO {
	if len(warns) == 0 {
		return nil
	}
	out := make([]dto.CostWarningDTO, 0, len(warns))
	for _, w := range warns {
		out = append(out, dto.CostWarningDTO{MovementID: w.MovementID, Reason: w.Reason, Quantity: w.Quantity})
	}
	return out
}
