package document

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Toda operación de documento (costeo →
// movimientos → recálculo) corre completa dentro de una sola unidad de
// trabajo: ningún commit parcial es observable y cualquier error revierte
// también las reversas ya preparadas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		docRepo repository.DocumentRepository,
		periodRepo repository.AccountingPeriodRepository,
	) error) error
}
