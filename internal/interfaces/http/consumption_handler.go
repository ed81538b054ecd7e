package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-lab/internal/application/consumption"
	"github.com/jhoicas/inventario-lab/internal/application/dto"
)

// ConsumptionHandler consultas de consumo histórico y proyecciones internas.
type ConsumptionHandler struct {
	analyzer *consumption.Analyzer
}

// NewConsumptionHandler construye el handler.
func NewConsumptionHandler(analyzer *consumption.Analyzer) *ConsumptionHandler {
	return &ConsumptionHandler{analyzer: analyzer}
}

// History godoc
// @Summary      Historial de salidas de un insumo
// @Tags         consumo
// @Produce      json
// @Param        id    path   string  true   "ID del insumo"
// @Param        dias  query  int     false  "Ventana en días"  default(30)
// @Success      200   {array}   dto.WithdrawalDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/consumo/{id}/historico [get]
func (h *ConsumptionHandler) History(c *fiber.Ctx) error {
	days, ok, err := queryDays(c, 30)
	if !ok {
		return err
	}
	out, err := h.analyzer.History(c.UserContext(), c.Params("id"), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Average godoc
// @Summary      Promedio diario de consumo
// @Tags         consumo
// @Produce      json
// @Param        id    path   string  true   "ID del insumo"
// @Param        dias  query  int     false  "Ventana en días"  default(30)
// @Success      200   {object}  dto.ConsumptionAverageDTO
// @Router       /api/consumo/{id}/promedio [get]
func (h *ConsumptionHandler) Average(c *fiber.Ctx) error {
	days, ok, err := queryDays(c, 30)
	if !ok {
		return err
	}
	id := c.Params("id")
	avg, err := h.analyzer.AverageDaily(c.UserContext(), id, days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ConsumptionAverageDTO{ItemID: id, Days: days, AverageDaily: avg})
}

// Total godoc
// @Summary      Consumo total en una ventana
// @Tags         consumo
// @Produce      json
// @Param        id    path   string  true   "ID del insumo"
// @Param        dias  query  int     false  "Ventana en días"  default(30)
// @Success      200   {object}  dto.ConsumptionTotalDTO
// @Router       /api/consumo/{id}/total [get]
func (h *ConsumptionHandler) Total(c *fiber.Ctx) error {
	days, ok, err := queryDays(c, 30)
	if !ok {
		return err
	}
	id := c.Params("id")
	total, err := h.analyzer.Total(c.UserContext(), id, days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ConsumptionTotalDTO{ItemID: id, Days: days, Total: total})
}

// Trend godoc
// @Summary      Tendencia de consumo
// @Description  Compara los últimos 30 días contra los 30 anteriores: creciente, decreciente o estable.
// @Tags         consumo
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {object}  dto.TrendDTO
// @Router       /api/consumo/{id}/tendencia [get]
func (h *ConsumptionHandler) Trend(c *fiber.Ctx) error {
	id := c.Params("id")
	trend, err := h.analyzer.Trend(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TrendDTO{ItemID: id, Trend: trend})
}

// Prediction godoc
// @Summary      Días estimados hasta agotamiento
// @Description  days_remaining es null cuando no hay consumo reciente o no hay cantidad registrada.
// @Tags         consumo
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {object}  dto.StockoutPredictionDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/consumo/{id}/prediccion [get]
func (h *ConsumptionHandler) Prediction(c *fiber.Ctx) error {
	out, err := h.analyzer.StockoutPrediction(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Range godoc
// @Summary      Salidas de todos los insumos en un rango de fechas
// @Tags         consumo
// @Produce      json
// @Param        desde  query  string  true  "Fecha inicial YYYY-MM-DD"
// @Param        hasta  query  string  true  "Fecha final YYYY-MM-DD (inclusive)"
// @Success      200    {array}   dto.WithdrawalDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/consumo/rango [get]
func (h *ConsumptionHandler) Range(c *fiber.Ctx) error {
	from, err1 := time.Parse(time.DateOnly, c.Query("desde"))
	to, err2 := time.Parse(time.DateOnly, c.Query("hasta"))
	if err1 != nil || err2 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde y hasta deben tener formato YYYY-MM-DD"})
	}
	out, err := h.analyzer.InRange(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
