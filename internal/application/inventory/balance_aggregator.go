package inventory

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// BalanceAggregator calcula la existencia neta por (item, bodega) desde el historial de movimientos.
// No guarda estado entre llamadas: cada consulta se recalcula sobre el ledger actual.
type BalanceAggregator struct {
	movRepo repository.StockMovementRepository
	timeout time.Duration
}

// NewBalanceAggregator construye el agregador. timeout <= 0 deja solo el deadline del caller.
func NewBalanceAggregator(movRepo repository.StockMovementRepository, timeout time.Duration) *BalanceAggregator {
	return &BalanceAggregator{movRepo: movRepo, timeout: timeout}
}

// ComputeBalances lanza en paralelo las sumas agrupadas de IN y OUT y las fusiona.
//
// Si cualquiera de las dos falla, el errgroup cancela la otra y la llamada completa falla:
// nunca se fusiona un resultado parcial. Solo aparecen pares con al menos un movimiento
// que cumpla el filtro.
func (uc *BalanceAggregator) ComputeBalances(ctx context.Context, tenantID string, filter entity.BalanceFilter) ([]entity.Balance, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domain.NewValidationError("tenant_id", "requerido")
	}
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	pred := entity.LedgerPredicate{TenantID: tenantID, BalanceFilter: filter}

	var in, out []entity.GroupedSum
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sums, err := uc.movRepo.GroupedSum(gctx, pred, entity.MovementTypeIN)
		if err != nil {
			return err
		}
		in = sums
		return nil
	})
	g.Go(func() error {
		sums, err := uc.movRepo.GroupedSum(gctx, pred, entity.MovementTypeOUT)
		if err != nil {
			return err
		}
		out = sums
		return nil
	})
	if err := g.Wait(); err != nil {
		// El deadline/cancelación del caller tiene prioridad sobre el error envuelto por el driver.
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, classify("inventory.ComputeBalances", err)
	}

	return inventory.MergeGroupedSums(in, out), nil
}
