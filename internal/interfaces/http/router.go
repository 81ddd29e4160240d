package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.LedgerUseCase
	JWTSecret string
	Log       zerolog.Logger

	// BaseContext se cancela al apagar el servidor; nil equivale a context.Background().
	BaseContext    context.Context
	RequestTimeout time.Duration // 0 = sin tope por petición
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Log), RequestContext(deps.BaseContext, deps.RequestTimeout))

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(entity.LedgerWriterRoles...)

	// Stock ledger (protegido). /balance va antes de /:id para no capturarlo como ID.
	stock := protected.Group("/stock")
	h := NewInventoryHandler(deps.Ledger)
	stock.Get("/balance", h.QueryBalances)
	stock.Get("/", h.ListMovements)
	stock.Post("/", writers, h.CreateMovement)
	stock.Get("/:id", h.GetMovement)
	stock.Post("/:id/reverse", writers, h.ReverseMovement)
}
