package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para POST /api/stock.
type CreateMovementRequest struct {
	ItemID      string          `json:"item_id" validate:"required,max=64"`
	WarehouseID string          `json:"warehouse_id" validate:"required,max=64"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"number"`
	Type        string          `json:"type" validate:"required,oneof=IN OUT"`
}

// MovementResponse salida de un movimiento de stock (sin tenant_id).
type MovementResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"number"`
	Type        string          `json:"type"`
	ReversalOf  *string         `json:"reversal_of,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MovementListQuery query params de GET /api/stock.
type MovementListQuery struct {
	ItemID      string `query:"item_id" validate:"omitempty,max=64"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,max=64"`
	Type        string `query:"type" validate:"omitempty,oneof=IN OUT"`
	Limit       int    `query:"limit" validate:"min=0"`
	Offset      int    `query:"offset" validate:"min=0"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceQueryParams query params de GET /api/stock/balance. Por defecto offset=0, limit=10.
type BalanceQueryParams struct {
	ItemID      string `query:"item_id" validate:"omitempty,max=64"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,max=64"`
	SKU         string `query:"sku" validate:"omitempty,max=100"`
	Offset      int    `query:"offset" validate:"min=0"`
	Limit       int    `query:"limit" validate:"min=0"`
}

// BalanceResponse existencia neta de un par (item, bodega) con sus metadatos.
type BalanceResponse struct {
	ItemID          string          `json:"item_id"`
	SKU             string          `json:"sku"`
	ItemName        string          `json:"item_name"`
	ItemDescription *string         `json:"item_description"`
	WarehouseID     string          `json:"warehouse_id"`
	WarehouseName   string          `json:"warehouse_name"`
	Balance         decimal.Decimal `json:"balance" swaggertype:"number"`
	LastMovementAt  *time.Time      `json:"last_movement_at"`
}

// BalanceListResponse página de balances.
type BalanceListResponse struct {
	Items []BalanceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
