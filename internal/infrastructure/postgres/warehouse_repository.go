package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q    Querier
	lock bool
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// ExistsForTenant indica si la bodega existe y pertenece al tenant.
func (r *WarehouseRepo) ExistsForTenant(ctx context.Context, warehouseID, tenantID string) (bool, error) {
	query := `SELECT id FROM warehouses WHERE id = $1 AND tenant_id = $2`
	if r.lock {
		query += ` FOR SHARE`
	}
	var id string
	err := r.q.QueryRow(ctx, query, warehouseID, tenantID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("warehouse exists: %w", err)
	}
	return true, nil
}

// FetchMetadata obtiene los nombres de las bodegas pedidas.
func (r *WarehouseRepo) FetchMetadata(ctx context.Context, ids []string, tenantID string) (map[string]entity.WarehouseMetadata, error) {
	out := make(map[string]entity.WarehouseMetadata, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, name FROM warehouses WHERE id = ANY($1) AND tenant_id = $2`, ids, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch warehouse metadata: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out[id] = entity.WarehouseMetadata{Name: name}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch warehouse metadata: %w", err)
	}
	return out, nil
}
