package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los NotFound específicos envuelven ErrNotFound para que errors.Is(err, ErrNotFound) siga funcionando.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrTenantNotFound    = fmt.Errorf("tenant: %w", ErrNotFound)
	ErrItemNotFound      = fmt.Errorf("item: %w", ErrNotFound)
	ErrWarehouseNotFound = fmt.Errorf("bodega: %w", ErrNotFound)
	ErrMovementNotFound  = fmt.Errorf("movimiento: %w", ErrNotFound)
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrTimeout           = errors.New("tiempo de consulta agotado")
	ErrCancelled         = errors.New("consulta cancelada")
	ErrStore             = errors.New("fallo de persistencia")
)

// ValidationError detalla qué campo de la entrada es inválido. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError construye un error de validación para el campo indicado.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StoreError envuelve un fallo de la base de datos. Error() nunca expone la causa;
// la causa solo es accesible vía Cause() para el log.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError envuelve err como fallo de persistencia de la operación op.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return ErrStore.Error() + " (" + e.Op + ")"
}

// Cause devuelve el error original de la capa de persistencia.
func (e *StoreError) Cause() error { return e.Err }

// Is hace que errors.Is(err, ErrStore) sea true sin exponer la causa en la cadena de Unwrap.
func (e *StoreError) Is(target error) bool { return target == ErrStore }
