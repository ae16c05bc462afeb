package repository

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// AccountingPeriodRepository define el puerto de persistencia de períodos
// contables.
type AccountingPeriodRepository interface {
	Get(companyID string, year int, month time.Month) (*entity.AccountingPeriod, error)
	Upsert(period *entity.AccountingPeriod) error

	// IsOpen reporta si la fecha cae en un período abierto. Un período sin
	// registro se considera abierto.
	IsOpen(companyID string, date time.Time) (bool, error)
}
