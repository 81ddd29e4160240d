package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// WarehouseRepository puerto de consulta de bodegas, siempre acotado al tenant.
type WarehouseRepository interface {
	ExistsForTenant(ctx context.Context, warehouseID, tenantID string) (bool, error)
	FetchMetadata(ctx context.Context, ids []string, tenantID string) (map[string]entity.WarehouseMetadata, error)
}
