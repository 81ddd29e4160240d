package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// MovementInput entrada para registrar un movimiento de stock.
type MovementInput struct {
	TenantID    string
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	Type        entity.MovementType
	CreatedBy   string
}

// Límites de la columna quantity NUMERIC(18,4).
const quantityScale = 4

var maxQuantity = decimal.New(1, 14)

// Validate verifica campos obligatorios, tipo y cantidad estrictamente positiva
// representable en NUMERIC(18,4) sin redondeo.
func (in MovementInput) Validate() error {
	switch {
	case strings.TrimSpace(in.TenantID) == "":
		return domain.NewValidationError("tenant_id", "requerido")
	case strings.TrimSpace(in.ItemID) == "":
		return domain.NewValidationError("item_id", "requerido")
	case strings.TrimSpace(in.WarehouseID) == "":
		return domain.NewValidationError("warehouse_id", "requerido")
	case !in.Quantity.IsPositive():
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	case !in.Quantity.Equal(in.Quantity.Truncate(quantityScale)):
		return domain.NewValidationError("quantity", "máximo 4 decimales")
	case in.Quantity.GreaterThanOrEqual(maxQuantity):
		return domain.NewValidationError("quantity", "excede el máximo permitido")
	}
	return validateMovementType(in.Type)
}

// MovementRecorder valida y agrega movimientos al ledger. No calcula balances:
// estos se derivan siempre en lectura.
type MovementRecorder struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewMovementRecorder construye el caso de uso.
func NewMovementRecorder(txRunner TxRunner, log zerolog.Logger) *MovementRecorder {
	return &MovementRecorder{txRunner: txRunner, log: log, now: time.Now}
}

// RecordMovement inicia una transacción, verifica tenant → item → bodega (acotados al tenant,
// con bloqueo de lectura) e inserta el movimiento. Devuelve el movimiento tal cual se guardó.
func (uc *MovementRecorder) RecordMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		TenantID:    input.TenantID,
		ItemID:      input.ItemID,
		WarehouseID: input.WarehouseID,
		Quantity:    input.Quantity,
		Type:        input.Type,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	checked := false
	err := uc.txRunner.Run(ctx, func(
		tenantRepo repository.TenantRepository,
		itemRepo repository.ItemRepository,
		warehouseRepo repository.WarehouseRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := requireTenant(ctx, tenantRepo, input.TenantID); err != nil {
			return err
		}
		ok, err := itemRepo.ExistsForTenant(ctx, input.ItemID, input.TenantID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrItemNotFound
		}
		ok, err = warehouseRepo.ExistsForTenant(ctx, input.WarehouseID, input.TenantID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrWarehouseNotFound
		}
		checked = true
		return movRepo.Insert(ctx, mov)
	})
	if err != nil {
		if checked && errors.Is(err, domain.ErrNotFound) {
			// La referencia desapareció entre la verificación y la inserción.
			uc.log.Warn().
				Err(err).
				Str("tenant_id", input.TenantID).
				Str("item_id", input.ItemID).
				Str("warehouse_id", input.WarehouseID).
				Msg("referencia eliminada durante el registro del movimiento")
		}
		return nil, classify("inventory.RecordMovement", err)
	}

	uc.log.Debug().
		Str("tenant_id", mov.TenantID).
		Str("movement_id", mov.ID).
		Str("type", string(mov.Type)).
		Str("quantity", mov.Quantity.String()).
		Msg("movimiento registrado")
	return mov, nil
}

// ReverseMovement registra un movimiento compensatorio del movimiento id: mismo item, bodega
// y cantidad, tipo contrario. Un movimiento solo se puede revertir una vez y una reversión
// no se revierte (ErrConflict).
func (uc *MovementRecorder) ReverseMovement(ctx context.Context, tenantID, movementID, createdBy string) (*entity.StockMovement, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domain.NewValidationError("tenant_id", "requerido")
	}
	if strings.TrimSpace(movementID) == "" {
		return nil, domain.NewValidationError("id", "requerido")
	}

	var reversal *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		tenantRepo repository.TenantRepository,
		_ repository.ItemRepository,
		_ repository.WarehouseRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := requireTenant(ctx, tenantRepo, tenantID); err != nil {
			return err
		}
		// GetByID dentro de la tx bloquea la fila original (FOR UPDATE).
		orig, err := movRepo.GetByID(ctx, movementID, tenantID)
		if err != nil {
			return err
		}
		if orig == nil {
			return domain.ErrMovementNotFound
		}
		if orig.ReversalOf != nil {
			return domain.ErrConflict
		}
		reversed, err := movRepo.HasReversal(ctx, orig.ID, tenantID)
		if err != nil {
			return err
		}
		if reversed {
			return domain.ErrConflict
		}

		now := uc.now().UTC()
		origID := orig.ID
		reversal = &entity.StockMovement{
			ID:          uuid.New().String(),
			TenantID:    tenantID,
			ItemID:      orig.ItemID,
			WarehouseID: orig.WarehouseID,
			Quantity:    orig.Quantity,
			Type:        orig.Type.Opposite(),
			ReversalOf:  &origID,
			CreatedBy:   createdBy,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return movRepo.Insert(ctx, reversal)
	})
	if err != nil {
		return nil, classify("inventory.ReverseMovement", err)
	}

	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("movement_id", movementID).
		Str("reversal_id", reversal.ID).
		Msg("movimiento revertido")
	return reversal, nil
}

func requireTenant(ctx context.Context, tenantRepo repository.TenantRepository, tenantID string) error {
	ok, err := tenantRepo.Exists(ctx, tenantID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTenantNotFound
	}
	return nil
}
