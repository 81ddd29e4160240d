package inventory

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
)

// ResultEnricher agrega metadatos de item y bodega a los balances, los ordena y pagina.
type ResultEnricher struct {
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	metrics       *metrics.LedgerMetrics
	log           zerolog.Logger
}

// NewResultEnricher construye el enriquecedor. m puede ser nil.
func NewResultEnricher(
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	m *metrics.LedgerMetrics,
	log zerolog.Logger,
) *ResultEnricher {
	return &ResultEnricher{itemRepo: itemRepo, warehouseRepo: warehouseRepo, metrics: m, log: log}
}

// EnrichAndPage consulta en lote los metadatos de exactamente los IDs presentes en balances,
// sustituye los huérfanos por valores Unknown, ordena y aplica offset/limit sobre el total.
func (uc *ResultEnricher) EnrichAndPage(
	ctx context.Context,
	balances []entity.Balance,
	tenantID string,
	offset, limit int,
) (*entity.BalancePage, error) {
	if offset < 0 {
		return nil, domain.NewValidationError("offset", "no puede ser negativo")
	}
	if limit < 0 {
		return nil, domain.NewValidationError("limit", "no puede ser negativo")
	}
	page := &entity.BalancePage{Items: []entity.BalanceView{}, Total: len(balances), Offset: offset, Limit: limit}
	if len(balances) == 0 {
		return page, nil
	}

	itemIDs, warehouseIDs := distinctIDs(balances)

	var (
		items      map[string]entity.ItemMetadata
		warehouses map[string]entity.WarehouseMetadata
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := uc.itemRepo.FetchMetadata(gctx, itemIDs, tenantID)
		items = m
		return err
	})
	g.Go(func() error {
		m, err := uc.warehouseRepo.FetchMetadata(gctx, warehouseIDs, tenantID)
		warehouses = m
		return err
	})
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, classify("inventory.EnrichAndPage", err)
	}

	orphans := 0
	views := make([]entity.BalanceView, 0, len(balances))
	for _, b := range balances {
		v := entity.BalanceView{Balance: b}
		if meta, ok := items[b.ItemID]; ok {
			v.SKU = meta.SKU
			v.ItemName = meta.Name
			v.ItemDescription = meta.Description
		} else {
			v.SKU = entity.UnknownSKU
			v.ItemName = entity.UnknownItemName
			orphans++
		}
		if meta, ok := warehouses[b.WarehouseID]; ok {
			v.WarehouseName = meta.Name
		} else {
			v.WarehouseName = entity.UnknownWarehouseName
			orphans++
		}
		views = append(views, v)
	}
	if orphans > 0 {
		uc.metrics.AddOrphans(orphans)
		uc.log.Debug().Str("tenant_id", tenantID).Int("orphans", orphans).Msg("balances con referencias huérfanas")
	}

	inventory.SortViews(views)
	page.Items = inventory.Paginate(views, offset, limit)
	return page, nil
}

func distinctIDs(balances []entity.Balance) (itemIDs, warehouseIDs []string) {
	seenItems := make(map[string]struct{}, len(balances))
	seenWarehouses := make(map[string]struct{})
	for _, b := range balances {
		if _, ok := seenItems[b.ItemID]; !ok {
			seenItems[b.ItemID] = struct{}{}
			itemIDs = append(itemIDs, b.ItemID)
		}
		if _, ok := seenWarehouses[b.WarehouseID]; !ok {
			seenWarehouses[b.WarehouseID] = struct{}{}
			warehouseIDs = append(warehouseIDs, b.WarehouseID)
		}
	}
	sort.Strings(itemIDs)
	sort.Strings(warehouseIDs)
	return itemIDs, warehouseIDs
}
