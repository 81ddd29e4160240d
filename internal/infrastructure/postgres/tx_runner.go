package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los repos de la tx bloquean las filas que leen: FOR SHARE en tenants, items y bodegas,
// FOR UPDATE en el movimiento leído por GetByID.
func (r *TxRunner) Run(ctx context.Context, fn func(
	tenantRepo repository.TenantRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tenantRepo := &TenantRepo{q: tx, lock: true}
	itemRepo := &ItemRepo{q: tx, lock: true}
	warehouseRepo := &WarehouseRepo{q: tx, lock: true}
	movRepo := &StockMovementRepo{q: tx, lock: true}

	if err := fn(tenantRepo, itemRepo, warehouseRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
