// Package container arma los adaptadores y casos de uso a partir de la configuración.
// Lo comparten la API y la CLI para que ambas usen el mismo almacén y los mismos
// publicadores.
package container

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-lab/internal/application/alert"
	"github.com/jhoicas/inventario-lab/internal/application/consumption"
	"github.com/jhoicas/inventario-lab/internal/application/inventory"
	"github.com/jhoicas/inventario-lab/internal/application/ports"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/amqp"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/prediction"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/realtime"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/redisstore"
	"github.com/jhoicas/inventario-lab/pkg/config"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

// Options qué piezas opcionales levantar.
type Options struct {
	// Realtime crea el hub websocket en proceso (solo tiene sentido en la API).
	Realtime bool
	// Clock reloj de los casos de uso; nil usa time.Now.
	Clock func() time.Time
}

// Container dependencias listas para usar. Hub, Locker y Broker pueden ser nil.
type Container struct {
	Items       repository.ItemRepository
	Lots        repository.LotRepository
	Withdrawals repository.WithdrawalRepository
	Alerts      repository.AlertRepository
	TxRunner    inventory.TxRunner

	ItemUC     *inventory.ItemUseCase
	LotUC      *inventory.LotUseCase
	Withdrawal *inventory.RegisterWithdrawalUseCase
	Analyzer   *consumption.Analyzer
	AlertSvc   *alert.Service
	Forecast   ports.ForecastService
	Reports    *pdf.AlertReportGenerator

	Hub    *realtime.Hub
	Broker *amqp.Publisher
	Locker ports.JobLocker

	closers []func()
}

// Build conecta el almacén (obligatorio) y los servicios opcionales. Redis y AMQP
// son best-effort: si no responden se registra un aviso y se sigue sin ellos.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	c := &Container{}

	if err := c.openStore(ctx, cfg.DB, log); err != nil {
		c.Close()
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("redis", cfg.Redis.Address).Msg("redis no disponible; sin caché ni bloqueo distribuido")
		} else {
			rdb = client
			c.closers = append(c.closers, func() { _ = client.Close() })
			c.Locker = redisstore.NewLocker(rdb, log.Component("redis"))
		}
	}

	var forecast ports.ForecastService = prediction.NewClient(cfg.Prediction.URL, cfg.Prediction.Timeout, log.Component("prediccion"))
	if rdb != nil && cfg.Prediction.CacheTTL > 0 {
		forecast = redisstore.NewCachedForecast(forecast, redisstore.NewCache(rdb), cfg.Prediction.CacheTTL, log)
	}
	c.Forecast = forecast

	var targets []ports.AlertPublisher
	if opts.Realtime {
		c.Hub = realtime.NewHub(realtime.DefaultBuffer, log.Component("websocket"))
		targets = append(targets, c.Hub)
	}
	if cfg.AMQP.URL != "" {
		broker, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log.Component("amqp"))
		if err != nil {
			log.Warn().Err(err).Msg("broker AMQP no disponible; las alertas solo se difunden en proceso")
		} else {
			c.Broker = broker
			c.closers = append(c.closers, broker.Close)
			targets = append(targets, broker)
		}
	}
	publisher := realtime.NewFanout(log, targets...)

	c.ItemUC = inventory.NewItemUseCase(c.Items)
	c.LotUC = inventory.NewLotUseCase(c.Lots, c.Items, clock)
	c.Withdrawal = inventory.NewRegisterWithdrawalUseCase(c.TxRunner, clock)
	c.Analyzer = consumption.NewAnalyzer(c.Items, c.Withdrawals, clock)

	factory := alert.NewFactory(c.Alerts, c.Items, c.Lots, clock)
	scanner := alert.NewScanner(c.Items, c.Lots, c.Analyzer, factory, clock, log)
	c.AlertSvc = alert.NewService(c.Alerts, scanner, factory, publisher, clock, log.Component("alertas"))
	c.Reports = pdf.NewAlertReportGenerator(cfg.App.Name)
	return c, nil
}

func (c *Container) openStore(ctx context.Context, cfg config.DBConfig, log *logger.Logger) error {
	switch strings.ToLower(cfg.Driver) {
	case "memory":
		st := memory.NewStore()
		c.Items, c.Lots, c.Withdrawals, c.Alerts = st.Items(), st.Lots(), st.Withdrawals(), st.Alerts()
		c.TxRunner = memory.NewTxRunner(st)
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return nil
	case "postgres", "":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("esquema: %w", err)
		}
		c.Items = postgres.NewItemRepository(pool)
		c.Lots = postgres.NewLotRepository(pool)
		c.Withdrawals = postgres.NewWithdrawalRepository(pool)
		c.Alerts = postgres.NewAlertRepository(pool)
		c.TxRunner = postgres.NewTxRunner(pool)
		return nil
	default:
		return fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Driver)
	}
}

// Close libera conexiones en orden inverso a su apertura.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
