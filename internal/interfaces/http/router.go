package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-lab/internal/application/alert"
	"github.com/jhoicas/inventario-lab/internal/application/consumption"
	"github.com/jhoicas/inventario-lab/internal/application/inventory"
	"github.com/jhoicas/inventario-lab/internal/application/ports"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/realtime"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC      *inventory.ItemUseCase
	LotUC       *inventory.LotUseCase
	Withdrawal  *inventory.RegisterWithdrawalUseCase
	Consumption *consumption.Analyzer
	Alerts      *alert.Service
	Forecast    ports.ForecastService
	Reports     ReportRenderer // opcional
	Hub         *realtime.Hub  // opcional; sin hub no hay /ws ni /api/websocket
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Insumos
	items := api.Group("/insumos")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)

	// Lotes
	lots := api.Group("/lotes")
	lotHandler := NewLotHandler(deps.LotUC)
	lots.Post("/", lotHandler.Create)
	lots.Get("/caducidad", lotHandler.Expiring)
	lots.Get("/insumo/:id/fefo", lotHandler.FEFO)
	lots.Put("/:id", lotHandler.Update)
	lots.Delete("/:id", lotHandler.Delete)

	// Salidas
	withdrawalHandler := NewWithdrawalHandler(deps.Withdrawal)
	api.Post("/salidas", withdrawalHandler.Register)

	// Consumo
	cons := api.Group("/consumo")
	consHandler := NewConsumptionHandler(deps.Consumption)
	cons.Get("/rango", consHandler.Range)
	cons.Get("/:id/historico", consHandler.History)
	cons.Get("/:id/promedio", consHandler.Average)
	cons.Get("/:id/total", consHandler.Total)
	cons.Get("/:id/tendencia", consHandler.Trend)
	cons.Get("/:id/prediccion", consHandler.Prediction)

	// Alertas: rutas fijas antes de /:id
	alerts := api.Group("/alertas")
	alertHandler := NewAlertHandler(deps.Alerts, deps.Reports)
	alerts.Get("/", alertHandler.List)
	alerts.Get("/no-leidas", alertHandler.Unread)
	alerts.Get("/urgentes", alertHandler.Urgent)
	alerts.Get("/hoy", alertHandler.Today)
	alerts.Get("/estadisticas", alertHandler.Stats)
	alerts.Get("/resumen", alertHandler.Summary)
	alerts.Get("/reporte.pdf", alertHandler.Report)
	alerts.Get("/tipo/:tipo", alertHandler.ByType)
	alerts.Get("/prioridad/:prioridad", alertHandler.ByPriority)
	alerts.Get("/insumo/:id", alertHandler.ByItem)
	alerts.Get("/lote/:id", alertHandler.ByLot)
	alerts.Post("/verificar-y-generar", alertHandler.Scan(alert.KindAll))
	alerts.Post("/verificar-stock-bajo", alertHandler.Scan(alert.KindLowStock))
	alerts.Post("/verificar-caducidad", alertHandler.Scan(alert.KindExpiry))
	alerts.Post("/verificar-vencidos", alertHandler.Scan(alert.KindExpired))
	alerts.Post("/verificar-agotamiento", alertHandler.Scan(alert.KindImminentStockout))
	alerts.Post("/crear-personalizada", alertHandler.CreateCustom)
	alerts.Delete("/limpiar-antiguas", alertHandler.Purge)
	alerts.Get("/:id", alertHandler.GetByID)
	alerts.Put("/:id/marcar-leida", alertHandler.MarkAsRead)
	alerts.Delete("/:id", alertHandler.Delete)

	// Predicción (servicio externo)
	if deps.Forecast != nil {
		pred := api.Group("/prediccion")
		predHandler := NewForecastHandler(deps.Forecast)
		pred.Get("/precision", predHandler.Precision)
		pred.Get("/:id", predHandler.Predict)
	}

	// Tiempo real
	if deps.Hub != nil {
		wsHandler := NewWebSocketHandler(deps.Hub, deps.Alerts, deps.Logger)
		app.Get("/ws/alertas", wsHandler.Upgrade, websocket.New(wsHandler.Stream))
		ws := api.Group("/websocket")
		ws.Post("/test", wsHandler.SendTest)
		ws.Get("/alertas/sync", wsHandler.SyncUnread)
		ws.Get("/broadcast", wsHandler.Broadcast)
		ws.Post("/emergencia", wsHandler.Emergency)
	}
}
