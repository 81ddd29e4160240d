package repository

import "context"

// TenantRepository puerto mínimo que el ledger necesita de la gestión de tenants.
// El CRUD de tenants vive fuera de este servicio.
type TenantRepository interface {
	Exists(ctx context.Context, tenantID string) (bool, error)
}
