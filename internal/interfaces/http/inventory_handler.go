package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
)

// defaultBalanceLimit límite de página cuando el cliente no envía limit.
const defaultBalanceLimit = 10

// InventoryHandler maneja las peticiones HTTP del ledger de stock (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Agrega una entrada (IN) o salida (OUT) al ledger. La cantidad debe ser mayor que cero.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateMovementRequest  true  "item_id, warehouse_id, quantity, type"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationResponse(err))
	}
	out, err := h.uc.CreateMovementFromRequest(c.UserContext(), tenantID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// QueryBalances godoc
// @Summary      Consultar balances de stock
// @Description  Existencia neta por (item, bodega) = Σ entradas − Σ salidas, ordenada por balance desc y nombre asc.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       query     string  false  "Filtrar por item"
// @Param        warehouse_id  query     string  false  "Filtrar por bodega"
// @Param        sku           query     string  false  "Subcadena del SKU (sin distinguir mayúsculas)"
// @Param        offset        query     int     false  "Desplazamiento (default 0)"
// @Param        limit         query     int     false  "Tamaño de página (default 10, máximo 100)"
// @Success      200  {object}  dto.BalanceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      499  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Failure      504  {object}  dto.ErrorResponse
// @Router       /api/stock/balance [get]
func (h *InventoryHandler) QueryBalances(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	in := dto.BalanceQueryParams{Limit: defaultBalanceLimit}
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationResponse(err))
	}
	out, err := h.uc.QueryBalancesFromRequest(c.UserContext(), tenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       query     string  false  "Filtrar por item"
// @Param        warehouse_id  query     string  false  "Filtrar por bodega"
// @Param        type          query     string  false  "IN u OUT"
// @Param        offset        query     int     false  "Desplazamiento"
// @Param        limit         query     int     false  "Tamaño de página (default 10, máximo 100)"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.MovementListQuery
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(validationResponse(err))
	}
	out, err := h.uc.ListMovementsFromRequest(c.UserContext(), tenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	mov, err := h.uc.GetMovement(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToMovementResponse(mov))
}

// ReverseMovement godoc
// @Summary      Revertir movimiento
// @Description  Registra el movimiento compensatorio (tipo contrario, misma cantidad). Un movimiento se revierte una sola vez.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento a revertir"
// @Success      201  {object}  dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/reverse [post]
func (h *InventoryHandler) ReverseMovement(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	mov, err := h.uc.ReverseMovement(c.UserContext(), tenantID, c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov))
}
