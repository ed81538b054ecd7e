package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-lab/internal/application/ports"
)

// ForecastHandler proxy hacia el servicio externo de predicción.
// Si el servicio no responde se devuelve 503 con el resultado estructurado.
type ForecastHandler struct {
	svc ports.ForecastService
}

// NewForecastHandler construye el handler.
func NewForecastHandler(svc ports.ForecastService) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

// Predict godoc
// @Summary      Predicción de consumo de un insumo
// @Tags         prediccion
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {object}  dto.ForecastResult
// @Failure      503  {object}  dto.ForecastResult
// @Router       /api/prediccion/{id} [get]
func (h *ForecastHandler) Predict(c *fiber.Ctx) error {
	out := h.svc.Predict(c.UserContext(), c.Params("id"))
	if !out.Available {
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	}
	return c.JSON(out)
}

// Precision godoc
// @Summary      Precisión del modelo de predicción
// @Tags         prediccion
// @Produce      json
// @Success      200  {object}  dto.PrecisionResult
// @Failure      503  {object}  dto.PrecisionResult
// @Router       /api/prediccion/precision [get]
func (h *ForecastHandler) Precision(c *fiber.Ctx) error {
	out := h.svc.Precision(c.UserContext())
	if !out.Available {
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	}
	return c.JSON(out)
}
