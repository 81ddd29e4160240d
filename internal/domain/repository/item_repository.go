package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ItemRepository puerto de consulta de items, siempre acotado al tenant.
// Un ID de otro tenant se comporta igual que un ID inexistente.
type ItemRepository interface {
	ExistsForTenant(ctx context.Context, itemID, tenantID string) (bool, error)
	// FetchMetadata devuelve solo los IDs encontrados para el tenant; los ausentes no aparecen en el mapa.
	FetchMetadata(ctx context.Context, ids []string, tenantID string) (map[string]entity.ItemMetadata, error)
}
