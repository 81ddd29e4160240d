package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType dirección de un movimiento de stock.
type MovementType string

// Tipos de movimiento. La dirección la da el tipo, nunca el signo de Quantity.
const (
	MovementTypeIN  MovementType = "IN"  // entrada
	MovementTypeOUT MovementType = "OUT" // salida
)

// Valid indica si t es un tipo de movimiento soportado.
func (t MovementType) Valid() bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}

// Opposite devuelve el tipo contrario (usado para movimientos compensatorios).
func (t MovementType) Opposite() MovementType {
	if t == MovementTypeIN {
		return MovementTypeOUT
	}
	return MovementTypeIN
}

// StockMovement registro del ledger: un cambio de stock de un item en una bodega.
// Es de solo inserción; las correcciones se hacen con un movimiento compensatorio (ReversalOf).
type StockMovement struct {
	ID          string
	TenantID    string
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal // siempre > 0
	Type        MovementType
	ReversalOf  *string // ID del movimiento que compensa, si aplica
	CreatedBy   string  // UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // borrado lógico fuera de banda; excluido de los balances
}

// MovementFilter filtros para listar el historial de movimientos de un tenant.
type MovementFilter struct {
	ItemID      string
	WarehouseID string
	Type        MovementType
	Limit       int
	Offset      int
}
