package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestContext instala en c.UserContext() el contexto de la petición, derivado de base
// y con tope timeout si es mayor que cero. Los handlers deben usar c.UserContext():
// fasthttp no cancela c.Context() cuando el cliente se desconecta.
//
// base es el contexto de vida del servidor; al cancelarlo (apagado) las consultas en curso
// terminan con ErrCancelled. Un timeout vencido termina con ErrTimeout.
func RequestContext(base context.Context, timeout time.Duration) fiber.Handler {
	if base == nil {
		base = context.Background()
	}
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(base)
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(base, timeout)
		}
		defer cancel()

		c.SetUserContext(ctx)
		return c.Next()
	}
}
