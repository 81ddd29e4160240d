// Package inventory contiene la lógica pura del ledger de stock: fusión de las sumas
// agrupadas IN/OUT en balances, orden total de la vista y paginación en memoria.
// No conoce la base de datos ni el transporte.
package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// MergeGroupedSums fusiona las sumas agrupadas de entradas y salidas en balances por (item, bodega).
//
// El mapa de trabajo es local a la llamada: se llena con las entradas y luego las salidas
// restan sobre la misma clave (o insertan −suma si el par no tuvo entradas).
// LastMovementAt es el mayor de los dos max(created_at).
// El resultado sale ordenado por (item, bodega) para que sea determinista.
func MergeGroupedSums(in, out []entity.GroupedSum) []entity.Balance {
	acc := make(map[entity.BalanceKey]*entity.Balance, len(in)+len(out))

	for _, g := range in {
		k := entity.BalanceKey{ItemID: g.ItemID, WarehouseID: g.WarehouseID}
		if b, ok := acc[k]; ok {
			b.Quantity = b.Quantity.Add(g.Sum)
			b.LastMovementAt = later(b.LastMovementAt, g.MaxCreatedAt)
			continue
		}
		acc[k] = &entity.Balance{
			ItemID:         g.ItemID,
			WarehouseID:    g.WarehouseID,
			Quantity:       g.Sum,
			LastMovementAt: later(nil, g.MaxCreatedAt),
		}
	}

	for _, g := range out {
		k := entity.BalanceKey{ItemID: g.ItemID, WarehouseID: g.WarehouseID}
		if b, ok := acc[k]; ok {
			b.Quantity = b.Quantity.Sub(g.Sum)
			b.LastMovementAt = later(b.LastMovementAt, g.MaxCreatedAt)
			continue
		}
		acc[k] = &entity.Balance{
			ItemID:         g.ItemID,
			WarehouseID:    g.WarehouseID,
			Quantity:       g.Sum.Neg(),
			LastMovementAt: later(nil, g.MaxCreatedAt),
		}
	}

	list := make([]entity.Balance, 0, len(acc))
	for _, b := range acc {
		list = append(list, *b)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ItemID != list[j].ItemID {
			return list[i].ItemID < list[j].ItemID
		}
		return list[i].WarehouseID < list[j].WarehouseID
	})
	return list
}

func later(cur *time.Time, t time.Time) *time.Time {
	if t.IsZero() {
		return cur
	}
	if cur == nil || t.After(*cur) {
		v := t
		return &v
	}
	return cur
}

// SortViews ordena in place: balance descendente, luego nombre de item ascendente
// (comparación byte a byte, equivalente a collation "C").
// SKU, item y bodega desempatan lo que quede para que el orden sea total y la paginación estable.
func SortViews(views []entity.BalanceView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if c := a.Quantity.Cmp(b.Quantity); c != 0 {
			return c > 0
		}
		if a.ItemName != b.ItemName {
			return a.ItemName < b.ItemName
		}
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		return a.WarehouseID < b.WarehouseID
	})
}

// Paginate devuelve la ventana [offset, offset+limit) de views ya ordenadas.
// Un offset fuera de rango o limit 0 devuelven una página vacía (nunca nil).
func Paginate(views []entity.BalanceView, offset, limit int) []entity.BalanceView {
	if offset < 0 || limit <= 0 || offset >= len(views) {
		return []entity.BalanceView{}
	}
	end := offset + limit
	if end > len(views) || end < offset {
		end = len(views)
	}
	page := make([]entity.BalanceView, end-offset)
	copy(page, views[offset:end])
	return page
}
