package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// Querier es lo que comparten *pgxpool.Pool y pgx.Tx: los repos funcionan igual con pool o dentro de una tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner abre transacciones (*pgxpool.Pool en producción).
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Códigos SQLSTATE usados por los adaptadores.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeQueryCanceled       = "57014"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// foreignKeyNotFound traduce una violación de FK (23503) al NotFound de la referencia,
// según el nombre del constraint. Devuelve nil si err no es una violación de FK.
func foreignKeyNotFound(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeForeignKeyViolation {
		return nil
	}
	switch c := pgErr.ConstraintName; {
	case strings.Contains(c, "tenant"):
		return domain.ErrTenantNotFound
	case strings.Contains(c, "item"):
		return domain.ErrItemNotFound
	case strings.Contains(c, "warehouse"):
		return domain.ErrWarehouseNotFound
	case strings.Contains(c, "reversal"):
		return domain.ErrMovementNotFound
	default:
		return domain.ErrNotFound
	}
}

// contextErr devuelve el error de contexto que originó err, incluido el statement_timeout
// del servidor (57014), para que la capa de aplicación lo reporte como timeout.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeQueryCanceled {
		return context.DeadlineExceeded
	}
	return nil
}

// escapeLike escapa los comodines de LIKE para buscar s como subcadena literal.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
