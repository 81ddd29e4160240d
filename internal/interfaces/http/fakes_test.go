package http_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// ledgerFake ledger en memoria para los tests HTTP. err fuerza un fallo en todas las consultas;
// block deja GroupedSum esperando hasta que se cancele el contexto.
type ledgerFake struct {
	mu         sync.Mutex
	tenants    map[string]bool
	items      map[string]entity.Item
	warehouses map[string]entity.Warehouse
	movements  []*entity.StockMovement
	err        error
	block      bool
}

func newLedgerFake() *ledgerFake {
	return &ledgerFake{
		tenants:    map[string]bool{},
		items:      map[string]entity.Item{},
		warehouses: map[string]entity.Warehouse{},
	}
}

func (f *ledgerFake) Run(_ context.Context, fn func(
	repository.TenantRepository,
	repository.ItemRepository,
	repository.WarehouseRepository,
	repository.StockMovementRepository,
) error) error {
	return fn(f, itemsFake{f}, warehousesFake{f}, movementsFake{f})
}

func (f *ledgerFake) Exists(_ context.Context, tenantID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tenants[tenantID], f.err
}

type itemsFake struct{ f *ledgerFake }

func (r itemsFake) ExistsForTenant(_ context.Context, id, tenantID string) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	it, ok := r.f.items[id]
	return ok && it.TenantID == tenantID, r.f.err
}

func (r itemsFake) FetchMetadata(_ context.Context, ids []string, tenantID string) (map[string]entity.ItemMetadata, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := map[string]entity.ItemMetadata{}
	for _, id := range ids {
		if it, ok := r.f.items[id]; ok && it.TenantID == tenantID {
			out[id] = entity.ItemMetadata{SKU: it.SKU, Name: it.Name, Description: it.Description}
		}
	}
	return out, r.f.err
}

type warehousesFake struct{ f *ledgerFake }

func (r warehousesFake) ExistsForTenant(_ context.Context, id, tenantID string) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	w, ok := r.f.warehouses[id]
	return ok && w.TenantID == tenantID, r.f.err
}

func (r warehousesFake) FetchMetadata(_ context.Context, ids []string, tenantID string) (map[string]entity.WarehouseMetadata, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := map[string]entity.WarehouseMetadata{}
	for _, id := range ids {
		if w, ok := r.f.warehouses[id]; ok && w.TenantID == tenantID {
			out[id] = entity.WarehouseMetadata{Name: w.Name}
		}
	}
	return out, r.f.err
}

type movementsFake struct{ f *ledgerFake }

func (r movementsFake) Insert(_ context.Context, m *entity.StockMovement) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.err != nil {
		return r.f.err
	}
	cp := *m
	r.f.movements = append(r.f.movements, &cp)
	return nil
}

func (r movementsFake) GroupedSum(ctx context.Context, pred entity.LedgerPredicate, t entity.MovementType) ([]entity.GroupedSum, error) {
	if r.f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.err != nil {
		return nil, r.f.err
	}
	idx := map[entity.BalanceKey]int{}
	var out []entity.GroupedSum
	for _, m := range r.f.movements {
		if m.TenantID != pred.TenantID || m.Type != t {
			continue
		}
		if pred.ItemID != "" && m.ItemID != pred.ItemID {
			continue
		}
		if pred.WarehouseID != "" && m.WarehouseID != pred.WarehouseID {
			continue
		}
		if pred.SKUContains != "" {
			it := r.f.items[m.ItemID]
			if !strings.Contains(strings.ToLower(it.SKU), strings.ToLower(pred.SKUContains)) {
				continue
			}
		}
		k := entity.BalanceKey{ItemID: m.ItemID, WarehouseID: m.WarehouseID}
		i, ok := idx[k]
		if !ok {
			idx[k] = len(out)
			out = append(out, entity.GroupedSum{ItemID: m.ItemID, WarehouseID: m.WarehouseID, Sum: m.Quantity, MaxCreatedAt: m.CreatedAt})
			continue
		}
		out[i].Sum = out[i].Sum.Add(m.Quantity)
		if m.CreatedAt.After(out[i].MaxCreatedAt) {
			out[i].MaxCreatedAt = m.CreatedAt
		}
	}
	return out, nil
}

func (r movementsFake) GetByID(_ context.Context, id, tenantID string) (*entity.StockMovement, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, m := range r.f.movements {
		if m.ID == id && m.TenantID == tenantID {
			cp := *m
			return &cp, r.f.err
		}
	}
	return nil, r.f.err
}

func (r movementsFake) List(_ context.Context, tenantID string, filter entity.MovementFilter) ([]*entity.StockMovement, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.f.movements {
		if m.TenantID == tenantID && (filter.Type == "" || m.Type == filter.Type) {
			list = append(list, m)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if filter.Offset >= len(list) {
		return nil, r.f.err
	}
	list = list[filter.Offset:]
	if filter.Limit < len(list) {
		list = list[:filter.Limit]
	}
	return list, r.f.err
}

func (r movementsFake) HasReversal(_ context.Context, id, tenantID string) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, m := range r.f.movements {
		if m.TenantID == tenantID && m.ReversalOf != nil && *m.ReversalOf == id {
			return true, r.f.err
		}
	}
	return false, r.f.err
}
