package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-lab/pkg/logger"
)

// RequestLogger registra método, ruta, status y duración de cada petición.
// Los 5xx salen en nivel error y los 4xx en warn.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("metodo", c.Method()).
			Str("ruta", c.Path()).
			Int("status", status).
			Dur("duracion", time.Since(start)).
			Msg("petición HTTP")
		return err
	}
}
