package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
)

// classify traduce un error de repositorio a la taxonomía de dominio.
// Los errores de dominio pasan tal cual; los de contexto se vuelven ErrTimeout/ErrCancelled
// y todo lo demás queda opaco como StoreError.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrTimeout),
		errors.Is(err, domain.ErrCancelled),
		errors.Is(err, domain.ErrStore):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ErrTimeout
	case errors.Is(err, context.Canceled):
		return domain.ErrCancelled
	default:
		return domain.NewStoreError(op, err)
	}
}

// resultLabel devuelve la etiqueta de métrica para el error.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return metrics.ResultInvalid
	case errors.Is(err, domain.ErrConflict):
		return metrics.ResultConflict
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, domain.ErrCancelled):
		return metrics.ResultTimeout
	default:
		return metrics.ResultError
	}
}

func validateMovementType(t entity.MovementType) error {
	if !t.Valid() {
		return domain.NewValidationError("type", "debe ser IN u OUT")
	}
	return nil
}
