package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación de TenantRepository sobre PostgreSQL (usable con pool o tx).
type TenantRepo struct {
	q    Querier
	lock bool
}

// NewTenantRepository construye el adaptador de tenants. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Exists indica si el tenant existe. Dentro de una tx del TxRunner la fila queda bloqueada (FOR SHARE).
func (r *TenantRepo) Exists(ctx context.Context, tenantID string) (bool, error) {
	query := `SELECT id FROM tenants WHERE id = $1`
	if r.lock {
		query += ` FOR SHARE`
	}
	var id string
	err := r.q.QueryRow(ctx, query, tenantID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("tenant exists: %w", err)
	}
	return true, nil
}
