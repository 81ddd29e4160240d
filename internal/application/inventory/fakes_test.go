package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// memStore ledger en memoria para tests: implementa los puertos del dominio con el mismo
// aislamiento por tenant que los adaptadores de PostgreSQL.
type memStore struct {
	mu         sync.Mutex
	tenants    map[string]bool
	items      map[string]entity.Item
	warehouses map[string]entity.Warehouse
	movements  []*entity.StockMovement

	groupedErr   map[entity.MovementType]error
	groupedBlock map[entity.MovementType]bool
	insertErr    error
	fetchErr     error
	fetchedItems [][]string
}

func newMemStore() *memStore {
	return &memStore{
		tenants:      map[string]bool{},
		items:        map[string]entity.Item{},
		warehouses:   map[string]entity.Warehouse{},
		groupedErr:   map[entity.MovementType]error{},
		groupedBlock: map[entity.MovementType]bool{},
	}
}

func (s *memStore) addTenant(id string) { s.tenants[id] = true }

func (s *memStore) addItem(tenantID, id, sku, name string) {
	s.items[id] = entity.Item{ID: id, TenantID: tenantID, SKU: sku, Name: name}
}

func (s *memStore) addWarehouse(tenantID, id, name string) {
	s.warehouses[id] = entity.Warehouse{ID: id, TenantID: tenantID, Name: name}
}

func (s *memStore) addMovement(tenantID, itemID, warehouseID string, t entity.MovementType, qty int64, at time.Time) *entity.StockMovement {
	m := &entity.StockMovement{
		ID:          fmt.Sprintf("m-%d", len(s.movements)+1),
		TenantID:    tenantID,
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    decimal.NewFromInt(qty),
		Type:        t,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	s.movements = append(s.movements, m)
	return m
}

func (s *memStore) repos() (tenantFake, itemFake, warehouseFake, movementFake) {
	return tenantFake{s}, itemFake{s}, warehouseFake{s}, movementFake{s}
}

// Run ejecuta fn directamente con los repos en memoria (sin rollback: la inserción es siempre el último paso).
func (s *memStore) Run(ctx context.Context, fn func(
	repository.TenantRepository,
	repository.ItemRepository,
	repository.WarehouseRepository,
	repository.StockMovementRepository,
) error) error {
	t, i, w, m := s.repos()
	return fn(t, i, w, m)
}

type tenantFake struct{ s *memStore }

func (f tenantFake) Exists(_ context.Context, tenantID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.tenants[tenantID], nil
}

type itemFake struct{ s *memStore }

func (f itemFake) ExistsForTenant(_ context.Context, itemID, tenantID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	it, ok := f.s.items[itemID]
	return ok && it.TenantID == tenantID, nil
}

func (f itemFake) FetchMetadata(_ context.Context, ids []string, tenantID string) (map[string]entity.ItemMetadata, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.fetchErr != nil {
		return nil, f.s.fetchErr
	}
	f.s.fetchedItems = append(f.s.fetchedItems, append([]string(nil), ids...))
	out := make(map[string]entity.ItemMetadata, len(ids))
	for _, id := range ids {
		if it, ok := f.s.items[id]; ok && it.TenantID == tenantID {
			out[id] = entity.ItemMetadata{SKU: it.SKU, Name: it.Name, Description: it.Description}
		}
	}
	return out, nil
}

type warehouseFake struct{ s *memStore }

func (f warehouseFake) ExistsForTenant(_ context.Context, warehouseID, tenantID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	w, ok := f.s.warehouses[warehouseID]
	return ok && w.TenantID == tenantID, nil
}

func (f warehouseFake) FetchMetadata(_ context.Context, ids []string, tenantID string) (map[string]entity.WarehouseMetadata, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make(map[string]entity.WarehouseMetadata, len(ids))
	for _, id := range ids {
		if w, ok := f.s.warehouses[id]; ok && w.TenantID == tenantID {
			out[id] = entity.WarehouseMetadata{Name: w.Name}
		}
	}
	return out, nil
}

type movementFake struct{ s *memStore }

func (f movementFake) Insert(_ context.Context, m *entity.StockMovement) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.insertErr != nil {
		return f.s.insertErr
	}
	cp := *m
	f.s.movements = append(f.s.movements, &cp)
	return nil
}

func (f movementFake) GroupedSum(ctx context.Context, pred entity.LedgerPredicate, t entity.MovementType) ([]entity.GroupedSum, error) {
	f.s.mu.Lock()
	block := f.s.groupedBlock[t]
	failure := f.s.groupedErr[t]
	f.s.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, fmt.Errorf("grouped sum %s: %w", t, ctx.Err())
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("grouped sum %s: %w", t, err)
	}
	if failure != nil {
		return nil, failure
	}

	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	groups := map[entity.BalanceKey]*entity.GroupedSum{}
	for _, m := range f.s.movements {
		if !f.s.matches(m, pred) || m.Type != t {
			continue
		}
		k := entity.BalanceKey{ItemID: m.ItemID, WarehouseID: m.WarehouseID}
		g, ok := groups[k]
		if !ok {
			g = &entity.GroupedSum{ItemID: m.ItemID, WarehouseID: m.WarehouseID, Sum: decimal.Zero}
			groups[k] = g
		}
		g.Sum = g.Sum.Add(m.Quantity)
		if m.CreatedAt.After(g.MaxCreatedAt) {
			g.MaxCreatedAt = m.CreatedAt
		}
	}
	out := make([]entity.GroupedSum, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	return out, nil
}

func (s *memStore) matches(m *entity.StockMovement, pred entity.LedgerPredicate) bool {
	if m.TenantID != pred.TenantID || m.DeletedAt != nil {
		return false
	}
	if pred.ItemID != "" && m.ItemID != pred.ItemID {
		return false
	}
	if pred.WarehouseID != "" && m.WarehouseID != pred.WarehouseID {
		return false
	}
	if pred.SKUContains != "" {
		it, ok := s.items[m.ItemID]
		if !ok || it.TenantID != pred.TenantID {
			return false
		}
		if !strings.Contains(strings.ToLower(it.SKU), strings.ToLower(pred.SKUContains)) {
			return false
		}
	}
	return true
}

func (f movementFake) GetByID(_ context.Context, id, tenantID string) (*entity.StockMovement, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, m := range f.s.movements {
		if m.ID == id && m.TenantID == tenantID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f movementFake) List(_ context.Context, tenantID string, filter entity.MovementFilter) ([]*entity.StockMovement, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range f.s.movements {
		if m.TenantID != tenantID || m.DeletedAt != nil {
			continue
		}
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.WarehouseID != "" && m.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		list = append(list, m)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if filter.Offset >= len(list) {
		return nil, nil
	}
	list = list[filter.Offset:]
	if filter.Limit < len(list) {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (f movementFake) HasReversal(_ context.Context, id, tenantID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, m := range f.s.movements {
		if m.TenantID == tenantID && m.ReversalOf != nil && *m.ReversalOf == id {
			return true, nil
		}
	}
	return false, nil
}
