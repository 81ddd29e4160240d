package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// CreateMovementFromRequest adapta el request HTTP al caso de uso CreateMovement(ctx, MovementInput).
// Usar desde handlers HTTP o desde otros casos de uso que tengan tenantID, userID y dto.CreateMovementRequest.
func (uc *LedgerUseCase) CreateMovementFromRequest(ctx context.Context, tenantID, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	mov, err := uc.CreateMovement(ctx, MovementInput{
		TenantID:    tenantID,
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Type:        entity.MovementType(in.Type),
		CreatedBy:   userID,
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// QueryBalancesFromRequest adapta los query params de GET /api/stock/balance.
func (uc *LedgerUseCase) QueryBalancesFromRequest(ctx context.Context, tenantID string, in dto.BalanceQueryParams) (*dto.BalanceListResponse, error) {
	page, err := uc.QueryBalances(ctx, tenantID, BalanceQuery{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		SKUContains: in.SKU,
		Offset:      in.Offset,
		Limit:       in.Limit,
	})
	if err != nil {
		return nil, err
	}
	return ToBalanceListResponse(page), nil
}

// ListMovementsFromRequest adapta los query params de GET /api/stock.
func (uc *LedgerUseCase) ListMovementsFromRequest(ctx context.Context, tenantID string, in dto.MovementListQuery) (*dto.MovementListResponse, error) {
	filter := entity.MovementFilter{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Type:        entity.MovementType(in.Type),
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	list, err := uc.ListMovements(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: uc.clampLimit(in.Limit, true), Offset: in.Offset},
	}, nil
}

// ToMovementResponse convierte la entidad a su salida HTTP.
func ToMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		WarehouseID: m.WarehouseID,
		Quantity:    m.Quantity,
		Type:        string(m.Type),
		ReversalOf:  m.ReversalOf,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToBalanceListResponse convierte una página de balances a su salida HTTP.
func ToBalanceListResponse(p *entity.BalancePage) *dto.BalanceListResponse {
	items := make([]dto.BalanceResponse, 0, len(p.Items))
	for _, v := range p.Items {
		items = append(items, dto.BalanceResponse{
			ItemID:          v.ItemID,
			SKU:             v.SKU,
			ItemName:        v.ItemName,
			ItemDescription: v.ItemDescription,
			WarehouseID:     v.WarehouseID,
			WarehouseName:   v.WarehouseName,
			Balance:         v.Quantity,
			LastMovementAt:  v.LastMovementAt,
		})
	}
	return &dto.BalanceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: p.Total},
	}
}
