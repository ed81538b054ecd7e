package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/inventario-lab/docs"
	"github.com/jhoicas/inventario-lab/internal/application/scheduler"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/container"
	httpRouter "github.com/jhoicas/inventario-lab/internal/interfaces/http"
	"github.com/jhoicas/inventario-lab/pkg/config"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db", cfg.DB.Driver).
		Msg("iniciando aplicación")

	// Fatal no ejecuta defer: run devuelve el error después de cerrar conexiones.
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("la aplicación terminó con error")
	}
	log.Info().Msg("aplicación detenida")
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()
	deps, err := container.Build(ctx, cfg, log, container.Options{Realtime: true})
	if err != nil {
		return fmt.Errorf("inicializar dependencias: %w", err)
	}
	defer deps.Close()

	sched, err := newScheduler(cfg.Scheduler, deps, log)
	if err != nil {
		return fmt.Errorf("configurar planificador: %w", err)
	}
	if sched != nil {
		sched.Start(ctx)
	}

	// Immutable: las cadenas de query y params sobreviven a la petición.
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Lab API",
		}))
	}
	app.Get("/api/docs/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"service":     cfg.App.Name,
			"scheduler":   sched != nil,
			"redis":       deps.Locker != nil,
			"broker":      deps.Broker != nil,
			"ws_clientes": deps.Hub.Len(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:      deps.ItemUC,
		LotUC:       deps.LotUC,
		Withdrawal:  deps.Withdrawal,
		Consumption: deps.Analyzer,
		Alerts:      deps.AlertSvc,
		Forecast:    deps.Forecast,
		Reports:     deps.Reports,
		Hub:         deps.Hub,
		Logger:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	return nil
}

// newScheduler nil si SCHEDULER_ENABLED=false.
func newScheduler(cfg config.SchedulerConfig, deps *container.Container, log *logger.Logger) (*scheduler.Scheduler, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return scheduler.New(scheduler.Deps{
		Jobs:    deps.AlertSvc,
		Reports: deps.Reports,
		Locker:  deps.Locker,
	}, cfg, log.Component("scheduler"))
}
