package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Las verificaciones de existencia hechas con estos repositorios bloquean las filas leídas
// (FOR SHARE / FOR UPDATE) hasta el Commit, cerrando la ventana entre validar e insertar.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		tenantRepo repository.TenantRepository,
		itemRepo repository.ItemRepository,
		warehouseRepo repository.WarehouseRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
