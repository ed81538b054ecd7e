package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-lab/internal/application/alert"
	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
)

// ReportRenderer genera el PDF del reporte semanal de alertas.
type ReportRenderer interface {
	Generate(ctx context.Context, report dto.WeeklyReportDTO) ([]byte, error)
}

// AlertHandler expone el almacén de alertas y los barridos a demanda.
type AlertHandler struct {
	svc     *alert.Service
	reports ReportRenderer
}

// NewAlertHandler construye el handler. reports puede ser nil (sin descarga de PDF).
func NewAlertHandler(svc *alert.Service, reports ReportRenderer) *AlertHandler {
	return &AlertHandler{svc: svc, reports: reports}
}

// List godoc
// @Summary      Listar alertas
// @Description  Todas las alertas, más recientes primero.
// @Tags         alertas
// @Produce      json
// @Success      200  {array}   dto.AlertDTO
// @Router       /api/alertas [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	return h.list(c, h.svc.List)
}

// Unread godoc
// @Summary      Alertas no leídas
// @Tags         alertas
// @Produce      json
// @Success      200  {array}   dto.AlertDTO
// @Router       /api/alertas/no-leidas [get]
func (h *AlertHandler) Unread(c *fiber.Ctx) error {
	return h.list(c, h.svc.ListUnread)
}

// Urgent godoc
// @Summary      Alertas urgentes
// @Description  No leídas con prioridad CRITICA o ALTA.
// @Tags         alertas
// @Produce      json
// @Success      200  {array}   dto.AlertDTO
// @Router       /api/alertas/urgentes [get]
func (h *AlertHandler) Urgent(c *fiber.Ctx) error {
	return h.list(c, h.svc.Urgent)
}

// Today godoc
// @Summary      Alertas creadas hoy
// @Tags         alertas
// @Produce      json
// @Success      200  {array}   dto.AlertDTO
// @Router       /api/alertas/hoy [get]
func (h *AlertHandler) Today(c *fiber.Ctx) error {
	return h.list(c, h.svc.Today)
}

func (h *AlertHandler) list(c *fiber.Ctx, fn func(context.Context) ([]dto.AlertDTO, error)) error {
	out, err := fn(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByType godoc
// @Summary      Alertas por tipo
// @Tags         alertas
// @Produce      json
// @Param        tipo  path  string  true  "Tipo (STOCK_BAJO, CADUCIDAD, VENCIDO, AGOTAMIENTO_PROXIMO...)"
// @Success      200   {array}   dto.AlertDTO
// @Router       /api/alertas/tipo/{tipo} [get]
func (h *AlertHandler) ByType(c *fiber.Ctx) error {
	out, err := h.svc.ByType(c.UserContext(), c.Params("tipo"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByPriority godoc
// @Summary      Alertas por prioridad
// @Tags         alertas
// @Produce      json
// @Param        prioridad  path  string  true  "CRITICA, ALTA, MEDIA o BAJA"
// @Success      200        {array}   dto.AlertDTO
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/alertas/prioridad/{prioridad} [get]
func (h *AlertHandler) ByPriority(c *fiber.Ctx) error {
	out, err := h.svc.ByPriority(c.UserContext(), c.Params("prioridad"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByItem godoc
// @Summary      Alertas de un insumo
// @Tags         alertas
// @Produce      json
// @Param        id  path  string  true  "ID del insumo"
// @Success      200 {array}  dto.AlertDTO
// @Router       /api/alertas/insumo/{id} [get]
func (h *AlertHandler) ByItem(c *fiber.Ctx) error {
	out, err := h.svc.ByItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByLot godoc
// @Summary      Alertas de un lote
// @Tags         alertas
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200 {array}  dto.AlertDTO
// @Router       /api/alertas/lote/{id} [get]
func (h *AlertHandler) ByLot(c *fiber.Ctx) error {
	out, err := h.svc.ByLot(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener alerta
// @Tags         alertas
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alertas/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkAsRead godoc
// @Summary      Marcar alerta como leída
// @Description  Idempotente: la fecha de lectura se conserva en llamadas repetidas.
// @Tags         alertas
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alertas/{id}/marcar-leida [put]
func (h *AlertHandler) MarkAsRead(c *fiber.Ctx) error {
	out, err := h.svc.MarkAsRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar alerta
// @Tags         alertas
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alertas/{id} [delete]
func (h *AlertHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats godoc
// @Summary      Estadísticas de alertas
// @Tags         alertas
// @Produce      json
// @Success      200  {object}  dto.AlertStatsDTO
// @Router       /api/alertas/estadisticas [get]
func (h *AlertHandler) Stats(c *fiber.Ctx) error {
	out, err := h.svc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen rápido de alertas
// @Tags         alertas
// @Produce      json
// @Success      200  {object}  dto.AlertSummaryDTO
// @Router       /api/alertas/resumen [get]
func (h *AlertHandler) Summary(c *fiber.Ctx) error {
	out, err := h.svc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Purge godoc
// @Summary      Limpiar alertas leídas antiguas
// @Tags         alertas
// @Produce      json
// @Param        dias  query  int  false  "Antigüedad en días"  default(30)
// @Success      200   {object}  dto.PurgeResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/alertas/limpiar-antiguas [delete]
func (h *AlertHandler) Purge(c *fiber.Ctx) error {
	days, ok, err := queryDays(c, 30)
	if !ok {
		return err
	}
	out, err := h.svc.Purge(c.UserContext(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Scan devuelve el handler de un barrido a demanda del tipo indicado.
//
// @Summary      Ejecutar barrido de alertas
// @Description  Crea y difunde las alertas que correspondan; devuelve solo las creadas.
// @Tags         alertas
// @Produce      json
// @Success      200  {object}  dto.ScanResultDTO
// @Router       /api/alertas/verificar-y-generar [post]
// @Router       /api/alertas/verificar-stock-bajo [post]
// @Router       /api/alertas/verificar-caducidad [post]
// @Router       /api/alertas/verificar-vencidos [post]
// @Router       /api/alertas/verificar-agotamiento [post]
func (h *AlertHandler) Scan(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.svc.Scan(c.UserContext(), kind)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}

// CreateCustom godoc
// @Summary      Crear alerta personalizada
// @Tags         alertas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomAlertRequest  true  "Alerta"
// @Success      201   {object}  dto.AlertDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/alertas/crear-personalizada [post]
func (h *AlertHandler) CreateCustom(c *fiber.Ctx) error {
	var in dto.CreateCustomAlertRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.svc.CreateCustom(c.UserContext(), alert.CustomInput{
		Type:     entity.AlertType(in.Type),
		Priority: entity.Priority(in.Priority),
		Title:    in.Title,
		Message:  in.Message,
		ItemID:   in.ItemID,
		LotID:    in.LotID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Report godoc
// @Summary      Descargar reporte semanal en PDF
// @Tags         alertas
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/alertas/reporte.pdf [get]
func (h *AlertHandler) Report(c *fiber.Ctx) error {
	if h.reports == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "reportes PDF deshabilitados"})
	}
	report, err := h.svc.WeeklyReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	body, err := h.reports.Generate(c.UserContext(), report)
	if err != nil {
		return writeError(c, err)
	}
	name := "reporte-alertas-" + report.GeneratedAt.Format("20060102") + ".pdf"
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(body)
}
