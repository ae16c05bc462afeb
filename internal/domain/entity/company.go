package entity

import "time"

// Políticas de valuación de inventario disponibles por empresa.
// La política es inmutable durante la vida del registro de empresa; cambiarla
// exige un recálculo global explícito (RecalculateCompany).
const (
	PolicyWeightedAverage = "WEIGHTED_AVERAGE"
	PolicyFIFO            = "FIFO"
	PolicyLIFO            = "LIFO"
)

// ValidValuationPolicy reporta si policy es una política conocida.
func ValidValuationPolicy(policy string) bool {
	switch policy {
	case PolicyWeightedAverage, PolicyFIFO, PolicyLIFO:
		return true
	}
	return false
}

// Company representa una organización/tenant del sistema.
type Company struct {
	ID              string
	Name            string
	NIT             string // identificación tributaria
	ValuationPolicy string // ver constantes Policy*
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
