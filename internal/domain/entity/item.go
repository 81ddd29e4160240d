package entity

import "time"

// Item representa un producto/SKU del inventario de un tenant.
// El stock no vive aquí: se deriva de los movimientos del ledger.
type Item struct {
	ID          string
	TenantID    string
	SKU         string  // único por tenant
	Name        string
	Description *string // opcional
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemMetadata datos de presentación de un item para enriquecer balances.
type ItemMetadata struct {
	SKU         string
	Name        string
	Description *string
}
