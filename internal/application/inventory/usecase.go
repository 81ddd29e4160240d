package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
)

// Nombres de operación para métricas y logs.
const (
	opCreateMovement  = "create_movement"
	opReverseMovement = "reverse_movement"
	opGetMovement     = "get_movement"
	opListMovements   = "list_movements"
	opQueryBalances   = "query_balances"
)

// BalanceQuery filtros y paginación de QueryBalances.
type BalanceQuery struct {
	ItemID      string
	WarehouseID string
	SKUContains string
	Offset      int
	Limit       int
}

// LedgerConfig límites de paginación del ledger.
type LedgerConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// LedgerUseCase es el punto de entrada único del ledger para la capa HTTP:
// combina el registrador, el agregador y el enriquecedor detrás de una sola llamada.
type LedgerUseCase struct {
	recorder   *MovementRecorder
	aggregator *BalanceAggregator
	enricher   *ResultEnricher
	movRepo    repository.StockMovementRepository
	metrics    *metrics.LedgerMetrics
	log        zerolog.Logger
	cfg        LedgerConfig
}

// NewLedgerUseCase construye la fachada del ledger. m puede ser nil.
func NewLedgerUseCase(
	recorder *MovementRecorder,
	aggregator *BalanceAggregator,
	enricher *ResultEnricher,
	movRepo repository.StockMovementRepository,
	m *metrics.LedgerMetrics,
	log zerolog.Logger,
	cfg LedgerConfig,
) *LedgerUseCase {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	return &LedgerUseCase{
		recorder:   recorder,
		aggregator: aggregator,
		enricher:   enricher,
		movRepo:    movRepo,
		metrics:    m,
		log:        log,
		cfg:        cfg,
	}
}

// CreateMovement registra un movimiento (IN/OUT) para el tenant.
func (uc *LedgerUseCase) CreateMovement(ctx context.Context, input MovementInput) (mov *entity.StockMovement, err error) {
	defer uc.observe(opCreateMovement, input.TenantID, time.Now(), &err)
	return uc.recorder.RecordMovement(ctx, input)
}

// ReverseMovement registra el movimiento compensatorio de movementID.
func (uc *LedgerUseCase) ReverseMovement(ctx context.Context, tenantID, movementID, userID string) (mov *entity.StockMovement, err error) {
	defer uc.observe(opReverseMovement, tenantID, time.Now(), &err)
	return uc.recorder.ReverseMovement(ctx, tenantID, movementID, userID)
}

// GetMovement obtiene un movimiento del tenant. Un ID de otro tenant devuelve ErrMovementNotFound.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, tenantID, id string) (mov *entity.StockMovement, err error) {
	defer uc.observe(opGetMovement, tenantID, time.Now(), &err)
	if strings.TrimSpace(tenantID) == "" {
		return nil, domain.NewValidationError("tenant_id", "requerido")
	}
	mov, err = uc.movRepo.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, classify("inventory.GetMovement", err)
	}
	if mov == nil {
		return nil, domain.ErrMovementNotFound
	}
	return mov, nil
}

// ListMovements lista el historial de movimientos del tenant, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, tenantID string, filter entity.MovementFilter) (list []*entity.StockMovement, err error) {
	defer uc.observe(opListMovements, tenantID, time.Now(), &err)
	if strings.TrimSpace(tenantID) == "" {
		return nil, domain.NewValidationError("tenant_id", "requerido")
	}
	if filter.Type != "" {
		if err := validateMovementType(filter.Type); err != nil {
			return nil, err
		}
	}
	if filter.Offset < 0 {
		return nil, domain.NewValidationError("offset", "no puede ser negativo")
	}
	if filter.Limit < 0 {
		return nil, domain.NewValidationError("limit", "no puede ser negativo")
	}
	filter.Limit = uc.clampLimit(filter.Limit, true)
	list, err = uc.movRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, classify("inventory.ListMovements", err)
	}
	if list == nil {
		list = []*entity.StockMovement{}
	}
	return list, nil
}

// QueryBalances calcula los balances del tenant con los filtros dados y devuelve la página pedida.
// Limit 0 devuelve una página vacía; un límite mayor al máximo configurado se recorta.
func (uc *LedgerUseCase) QueryBalances(ctx context.Context, tenantID string, q BalanceQuery) (page *entity.BalancePage, err error) {
	defer uc.observe(opQueryBalances, tenantID, time.Now(), &err)
	if q.Offset < 0 {
		return nil, domain.NewValidationError("offset", "no puede ser negativo")
	}
	if q.Limit < 0 {
		return nil, domain.NewValidationError("limit", "no puede ser negativo")
	}

	balances, err := uc.aggregator.ComputeBalances(ctx, tenantID, entity.BalanceFilter{
		ItemID:      strings.TrimSpace(q.ItemID),
		WarehouseID: strings.TrimSpace(q.WarehouseID),
		SKUContains: strings.TrimSpace(q.SKUContains),
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.ObserveRows(opQueryBalances, len(balances))

	return uc.enricher.EnrichAndPage(ctx, balances, tenantID, q.Offset, uc.clampLimit(q.Limit, false))
}

// clampLimit recorta al máximo configurado. Con useDefault, 0 toma el límite por defecto.
func (uc *LedgerUseCase) clampLimit(limit int, useDefault bool) int {
	if limit == 0 && useDefault {
		return uc.cfg.DefaultLimit
	}
	if limit > uc.cfg.MaxLimit {
		return uc.cfg.MaxLimit
	}
	return limit
}

// observe registra la métrica de la operación y loguea los fallos de persistencia con su causa.
func (uc *LedgerUseCase) observe(op, tenantID string, start time.Time, errp *error) {
	err := *errp
	uc.metrics.Observe(op, resultLabel(err), time.Since(start))
	if err == nil {
		return
	}
	var storeErr *domain.StoreError
	switch {
	case errors.As(err, &storeErr):
		uc.log.Error().
			Err(storeErr.Cause()).
			Str("op", storeErr.Op).
			Str("tenant_id", tenantID).
			Msg("fallo de persistencia en el ledger")
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, domain.ErrCancelled):
		uc.log.Warn().
			Err(err).
			Str("op", op).
			Str("tenant_id", tenantID).
			Dur("elapsed", time.Since(start)).
			Msg("consulta del ledger abortada")
	}
}
