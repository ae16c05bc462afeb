package memory

import (
	"context"

	appdocument "github.com/jhoicas/kardex-api/internal/application/document"
	appledger "github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Ensure TxRunner implements los puertos de ambas capas de aplicación.
var (
	_ appdocument.TxRunner = (*TxRunner)(nil)
	_ appledger.TxRunner   = (*TxRunner)(nil)
)

// TxRunner emula la unidad de trabajo sobre el almacén en memoria: un mutex
// único serializa las unidades (equivalente al bloqueo por pareja) y una
// instantánea del estado permite revertir todo ante cualquier error.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos sobre el almacén; ante error repone la instantánea.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	docRepo repository.DocumentRepository,
	periodRepo repository.AccountingPeriodRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.snapshot()
	err := fn(
		NewStockMovementRepository(r.store),
		NewDocumentRepository(r.store),
		NewAccountingPeriodRepository(r.store),
	)
	if err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
