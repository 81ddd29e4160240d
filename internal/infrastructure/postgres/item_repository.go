package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q    Querier
	lock bool
}

// NewItemRepository construye el adaptador de items. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// ExistsForTenant indica si el item existe y pertenece al tenant.
func (r *ItemRepo) ExistsForTenant(ctx context.Context, itemID, tenantID string) (bool, error) {
	query := `SELECT id FROM items WHERE id = $1 AND tenant_id = $2`
	if r.lock {
		query += ` FOR SHARE`
	}
	var id string
	err := r.q.QueryRow(ctx, query, itemID, tenantID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("item exists: %w", err)
	}
	return true, nil
}

// FetchMetadata obtiene SKU, nombre y descripción de los items pedidos en una sola consulta.
func (r *ItemRepo) FetchMetadata(ctx context.Context, ids []string, tenantID string) (map[string]entity.ItemMetadata, error) {
	out := make(map[string]entity.ItemMetadata, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `
		SELECT id, sku, name, description
		FROM items WHERE id = ANY($1) AND tenant_id = $2`
	rows, err := r.q.Query(ctx, query, ids, tenantID)
	if err != nil {
		return nil, fmt.Errorf("fetch item metadata: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   string
			meta entity.ItemMetadata
		)
		if err := rows.Scan(&id, &meta.SKU, &meta.Name, &meta.Description); err != nil {
			return nil, fmt.Errorf("scan item metadata: %w", err)
		}
		out[id] = meta
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch item metadata: %w", err)
	}
	return out, nil
}
