package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// PeriodUseCase abre y cierra períodos contables. Un período cerrado bloquea
// toda mutación de documentos fechados dentro de él.
type PeriodUseCase struct {
	companyRepo repository.CompanyRepository
	periodRepo  repository.AccountingPeriodRepository
}

// NewPeriodUseCase construye el caso de uso.
func NewPeriodUseCase(companyRepo repository.CompanyRepository, periodRepo repository.AccountingPeriodRepository) *PeriodUseCase {
	return &PeriodUseCase{companyRepo: companyRepo, periodRepo: periodRepo}
}

// Set abre o cierra el período (year, month) de la empresa. Crea el registro
// si no existe; un período sin registro se considera abierto.
func (uc *PeriodUseCase) Set(companyID string, in dto.SetPeriodRequest) (*dto.PeriodResponse, error) {
	if in.Month < 1 || in.Month > 12 {
		return nil, fmt.Errorf("%w: month debe estar entre 1 y 12", domain.ErrInvalidInput)
	}
	if in.Year < 1900 || in.Year > 3000 {
		return nil, fmt.Errorf("%w: year fuera de rango", domain.ErrInvalidInput)
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, companyID)
	}

	now := time.Now()
	period, err := uc.periodRepo.Get(companyID, in.Year, time.Month(in.Month))
	if err != nil {
		return nil, err
	}
	if period == nil {
		period = &entity.AccountingPeriod{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Year:      in.Year,
			Month:     time.Month(in.Month),
			CreatedAt: now,
		}
	}
	period.Closed = in.Closed
	period.UpdatedAt = now
	if err := uc.periodRepo.Upsert(period); err != nil {
		return nil, err
	}
	return &dto.PeriodResponse{
		CompanyID: period.CompanyID,
		Year:      period.Year,
		Month:     int(period.Month),
		Closed:    period.Closed,
	}, nil
}
