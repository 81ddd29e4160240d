package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, tenant_id, item_id, warehouse_id, quantity, type, reversal_of, created_by, created_at, updated_at, deleted_at`

// StockMovementRepo implementación del ledger de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q    Querier
	lock bool
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Insert agrega un movimiento al ledger.
func (r *StockMovementRepo) Insert(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, tenant_id, item_id, warehouse_id, quantity, type, reversal_of, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TenantID, m.ItemID, m.WarehouseID, m.Quantity, string(m.Type),
		m.ReversalOf, createdBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if nf := foreignKeyNotFound(err); nf != nil {
			return nf
		}
		if isUniqueViolation(err) {
			// Único índice parcial sobre reversal_of: otra tx revirtió el mismo movimiento.
			return domain.ErrConflict
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GroupedSum suma cantidades por (item, bodega) para un tipo de movimiento. El filtro por SKU
// hace join con items del mismo tenant; los movimientos con borrado lógico nunca cuentan.
func (r *StockMovementRepo) GroupedSum(ctx context.Context, pred entity.LedgerPredicate, movementType entity.MovementType) ([]entity.GroupedSum, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT m.item_id, m.warehouse_id, COALESCE(SUM(m.quantity), 0), MAX(m.created_at)
		FROM stock_movements m`)
	if pred.SKUContains != "" {
		sb.WriteString(`
		JOIN items i ON i.id = m.item_id AND i.tenant_id = m.tenant_id`)
	}
	sb.WriteString(`
		WHERE m.tenant_id = $1 AND m.type = $2 AND m.deleted_at IS NULL`)
	args := []any{pred.TenantID, string(movementType)}
	pos := 3
	if pred.ItemID != "" {
		fmt.Fprintf(&sb, " AND m.item_id = $%d", pos)
		args = append(args, pred.ItemID)
		pos++
	}
	if pred.WarehouseID != "" {
		fmt.Fprintf(&sb, " AND m.warehouse_id = $%d", pos)
		args = append(args, pred.WarehouseID)
		pos++
	}
	if pred.SKUContains != "" {
		fmt.Fprintf(&sb, ` AND i.sku ILIKE '%%' || $%d || '%%' ESCAPE '\'`, pos)
		args = append(args, escapeLike(pred.SKUContains))
	}
	sb.WriteString(" GROUP BY m.item_id, m.warehouse_id")

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, r.wrapQueryErr(ctx, "grouped sum", err)
	}
	defer rows.Close()
	var out []entity.GroupedSum
	for rows.Next() {
		var g entity.GroupedSum
		if err := rows.Scan(&g.ItemID, &g.WarehouseID, &g.Sum, &g.MaxCreatedAt); err != nil {
			return nil, fmt.Errorf("scan grouped sum: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrapQueryErr(ctx, "grouped sum", err)
	}
	return out, nil
}

// GetByID obtiene un movimiento del tenant. Dentro de una tx del TxRunner bloquea la fila (FOR UPDATE).
func (r *StockMovementRepo) GetByID(ctx context.Context, id, tenantID string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`
	if r.lock {
		query += ` FOR UPDATE`
	}
	m, err := scanMovement(r.q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// List lista movimientos del tenant, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, tenantID string, filter entity.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE tenant_id = $1 AND deleted_at IS NULL`
	args := []any{tenantID}
	pos := 2
	if filter.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, filter.ItemID)
		pos++
	}
	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, string(filter.Type))
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, r.wrapQueryErr(ctx, "list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// HasReversal indica si existe un movimiento con reversal_of = id.
func (r *StockMovementRepo) HasReversal(ctx context.Context, id, tenantID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock_movements WHERE reversal_of = $1 AND tenant_id = $2 AND deleted_at IS NULL)`,
		id, tenantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has reversal: %w", err)
	}
	return exists, nil
}

// wrapQueryErr conserva el error de contexto en la cadena para que se reporte como timeout/cancelación.
func (r *StockMovementRepo) wrapQueryErr(ctx context.Context, op string, err error) error {
	if ctxErr := contextErr(ctx, err); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var (
		m         entity.StockMovement
		typ       string
		createdBy *string
	)
	if err := row.Scan(
		&m.ID, &m.TenantID, &m.ItemID, &m.WarehouseID, &m.Quantity, &typ,
		&m.ReversalOf, &createdBy, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	); err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
