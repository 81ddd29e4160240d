package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockMovementRepository puerto de persistencia del ledger de movimientos.
// Solo inserción: no existen Update ni Delete.
type StockMovementRepository interface {
	Insert(ctx context.Context, movement *entity.StockMovement) error
	// GroupedSum suma quantity y toma max(created_at) por (item, bodega) para un tipo de movimiento.
	GroupedSum(ctx context.Context, pred entity.LedgerPredicate, movementType entity.MovementType) ([]entity.GroupedSum, error)
	GetByID(ctx context.Context, id, tenantID string) (*entity.StockMovement, error)
	List(ctx context.Context, tenantID string, filter entity.MovementFilter) ([]*entity.StockMovement, error)
	// HasReversal indica si ya existe un movimiento compensatorio de id.
	HasReversal(ctx context.Context, id, tenantID string) (bool, error)
}
