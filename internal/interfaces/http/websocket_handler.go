package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-lab/internal/application/alert"
	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/realtime"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

const (
	defaultTestTitle     = "Alerta de prueba WebSocket"
	testMessage          = "Esta es una alerta de prueba enviada desde el servidor para verificar WebSocket"
	defaultBroadcastText = "Sistema funcionando correctamente"
	broadcastTitle       = "Notificación del Sistema"
	syncTimeout          = 10 * time.Second
)

// WebSocketHandler canal en tiempo real /ws/alertas y endpoints auxiliares de prueba.
type WebSocketHandler struct {
	hub    *realtime.Hub
	alerts *alert.Service
	log    *logger.Logger
}

// NewWebSocketHandler construye el handler.
func NewWebSocketHandler(hub *realtime.Hub, alerts *alert.Service, log *logger.Logger) *WebSocketHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WebSocketHandler{hub: hub, alerts: alerts, log: log}
}

// Upgrade exige el handshake websocket antes de llegar a Stream.
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream atiende una conexión: envía las no leídas solo a este cliente, luego
// reenvía todo lo difundido por el hub. Los mensajes de texto entrantes se
// devuelven a todos los clientes (eco de conectividad).
func (h *WebSocketHandler) Stream(conn *websocket.Conn) {
	sub := h.hub.Subscribe()
	log := h.log.With().Str("cliente", sub.ID).Logger()

	h.syncUnread(conn, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.Messages() {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug().Err(err).Msg("escritura websocket fallida")
				return
			}
		}
	}()

	for {
		mt, payload, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if mt == websocket.TextMessage {
			h.hub.Broadcast(payload)
		}
	}

	h.hub.Unsubscribe(sub.ID)
	_ = conn.Close()
	<-done
}

func (h *WebSocketHandler) syncUnread(conn *websocket.Conn, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	unread, err := h.alerts.ListUnread(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("no se pudieron sincronizar las alertas no leídas")
		return
	}
	for _, a := range unread {
		payload, err := json.Marshal(a)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	log.Info().Int("alertas", len(unread)).Msg("cliente websocket sincronizado")
}

// SendTest godoc
// @Summary      Enviar alerta de prueba
// @Tags         websocket
// @Produce      json
// @Param        titulo     query  string  false  "Título"     default(Alerta de prueba WebSocket)
// @Param        tipo       query  string  false  "Tipo"       default(STOCK_BAJO)
// @Param        prioridad  query  string  false  "Prioridad"  default(MEDIA)
// @Success      201  {object}  dto.AlertDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/websocket/test [post]
func (h *WebSocketHandler) SendTest(c *fiber.Ctx) error {
	var in dto.TestAlertRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	ownStrings(&in.Title, &in.Type, &in.Priority)
	if err := validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.alerts.CreateCustom(c.UserContext(), alert.CustomInput{
		Type:     entity.AlertType(orDefault(in.Type, string(entity.AlertLowStock))),
		Priority: entity.Priority(orDefault(in.Priority, string(entity.PriorityMedium))),
		Title:    orDefault(in.Title, defaultTestTitle),
		Message:  testMessage,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SyncUnread godoc
// @Summary      Difundir todas las alertas no leídas
// @Tags         websocket
// @Produce      json
// @Success      200  {object}  dto.PublishedDTO
// @Router       /api/websocket/alertas/sync [get]
func (h *WebSocketHandler) SyncUnread(c *fiber.Ctx) error {
	n, err := h.alerts.PublishUnread(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PublishedDTO{Published: n})
}

// Broadcast godoc
// @Summary      Difundir un mensaje de sistema
// @Description  Crea una alerta SISTEMA y la envía a todos los clientes.
// @Tags         websocket
// @Produce      json
// @Param        mensaje    query  string  false  "Mensaje"    default(Sistema funcionando correctamente)
// @Param        prioridad  query  string  false  "Prioridad"  default(BAJA)
// @Success      201  {object}  dto.AlertDTO
// @Router       /api/websocket/broadcast [get]
func (h *WebSocketHandler) Broadcast(c *fiber.Ctx) error {
	var in dto.BroadcastRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	ownStrings(&in.Message, &in.Priority)
	if err := validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.alerts.CreateCustom(c.UserContext(), alert.CustomInput{
		Type:     entity.AlertSystem,
		Priority: entity.Priority(orDefault(in.Priority, string(entity.PriorityLow))),
		Title:    broadcastTitle,
		Message:  orDefault(in.Message, defaultBroadcastText),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Emergency godoc
// @Summary      Enviar alerta de emergencia
// @Description  Alerta AGOTAMIENTO_PROXIMO con prioridad CRITICA.
// @Tags         websocket
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmergencyAlertRequest  true  "Emergencia"
// @Success      201   {object}  dto.AlertDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/websocket/emergencia [post]
func (h *WebSocketHandler) Emergency(c *fiber.Ctx) error {
	var in dto.EmergencyAlertRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.alerts.CreateCustom(c.UserContext(), alert.CustomInput{
		Type:     entity.AlertImminentStockout,
		Priority: entity.PriorityCritical,
		Title:    in.Title,
		Message:  in.Message,
		ItemID:   in.ItemID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
