package entity

import "time"

// Tenant representa una organización del sistema: raíz del aislamiento multi-tenant.
// Items, bodegas, usuarios y movimientos llevan siempre su TenantID.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
