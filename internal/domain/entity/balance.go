package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores centinela para referencias huérfanas (item o bodega borrados después de registrar movimientos).
const (
	UnknownSKU           = "Unknown"
	UnknownItemName      = "Unknown Item"
	UnknownWarehouseName = "Unknown Warehouse"
)

// BalanceKey clave compuesta (item, bodega) de un balance.
type BalanceKey struct {
	ItemID      string
	WarehouseID string
}

// Balance existencia neta derivada de un par (item, bodega); nunca se persiste.
// Quantity = Σ IN − Σ OUT y puede ser negativa.
type Balance struct {
	ItemID         string
	WarehouseID    string
	Quantity       decimal.Decimal
	LastMovementAt *time.Time
}

// Key devuelve la clave compuesta del balance.
func (b Balance) Key() BalanceKey {
	return BalanceKey{ItemID: b.ItemID, WarehouseID: b.WarehouseID}
}

// BalanceView balance enriquecido con metadatos de item y bodega.
type BalanceView struct {
	Balance
	SKU             string
	ItemName        string
	ItemDescription *string
	WarehouseName   string
}

// BalancePage página de balances ordenados. Total es el número de filas antes de paginar.
type BalancePage struct {
	Items  []BalanceView
	Total  int
	Offset int
	Limit  int
}

// BalanceFilter filtros opcionales (AND) para el cálculo de balances.
type BalanceFilter struct {
	ItemID      string
	WarehouseID string
	SKUContains string // subcadena, sin distinguir mayúsculas
}

// LedgerPredicate predicado base de las sumas agrupadas: tenant obligatorio + filtros.
// Las filas con borrado lógico se excluyen siempre.
type LedgerPredicate struct {
	TenantID string
	BalanceFilter
}

// GroupedSum resultado de una suma agrupada por (item, bodega) para un tipo de movimiento.
type GroupedSum struct {
	ItemID       string
	WarehouseID  string
	Sum          decimal.Decimal
	MaxCreatedAt time.Time
}
