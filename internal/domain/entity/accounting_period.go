package entity

import "time"

// AccountingPeriod representa un período contable (año-mes) de una empresa.
// Un período cerrado bloquea toda mutación de documentos fechados dentro de él.
type AccountingPeriod struct {
	ID        string
	CompanyID string
	Year      int
	Month     time.Month
	Closed    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contains reporta si la fecha cae dentro del período.
func (p *AccountingPeriod) Contains(date time.Time) bool {
	return date.Year() == p.Year && date.Month() == p.Month
}
