package entity

import "time"

// Warehouse representa una bodega de un tenant donde se almacena inventario.
type Warehouse struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WarehouseMetadata datos de presentación de una bodega.
type WarehouseMetadata struct {
	Name string
}
