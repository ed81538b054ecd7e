package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/inventory"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

// StockoutPredictor predicción de días a agotamiento para un insumo ya cargado.
type StockoutPredictor interface {
	PredictForItem(ctx context.Context, item *entity.Item) (*int, error)
}

// Nombres de barrido expuestos por API y CLI.
const (
	KindAll              = "todos"
	KindLowStock         = "stock-bajo"
	KindExpiry           = "caducidad"
	KindExpired          = "vencidos"
	KindImminentStockout = "agotamiento"
)

// Scanner recorre insumos y lotes buscando condiciones de alerta.
// Devuelve solo las alertas creadas; los duplicados suprimidos no aparecen.
// Una falla al crear la alerta de una entidad se registra y el barrido continúa.
type Scanner struct {
	items     repository.ItemRepository
	lots      repository.LotRepository
	predictor StockoutPredictor
	factory   *Factory
	now       func() time.Time
	log       *logger.Logger
}

// NewScanner construye el escáner. clock nil usa time.Now.
func NewScanner(
	items repository.ItemRepository,
	lots repository.LotRepository,
	predictor StockoutPredictor,
	factory *Factory,
	clock func() time.Time,
	log *logger.Logger,
) *Scanner {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scanner{items: items, lots: lots, predictor: predictor, factory: factory, now: clock, log: log}
}

// Run ejecuta el barrido indicado por nombre.
func (s *Scanner) Run(ctx context.Context, scan string) ([]*entity.Alert, error) {
	switch scan {
	case KindAll, "":
		return s.ScanAll(ctx)
	case KindLowStock:
		return s.ScanLowStock(ctx)
	case KindExpiry:
		return s.ScanExpiry(ctx)
	case KindExpired:
		return s.ScanExpired(ctx)
	case KindImminentStockout:
		return s.ScanImminentStockout(ctx)
	default:
		return nil, fmt.Errorf("barrido desconocido %q: %w", scan, domain.ErrInvalidInput)
	}
}

// ScanAll unión de los cuatro barridos. Si uno falla se continúa con los demás
// y se devuelve el primer error junto con lo creado.
func (s *Scanner) ScanAll(ctx context.Context) ([]*entity.Alert, error) {
	var (
		all      []*entity.Alert
		firstErr error
	)
	for _, scan := range []func(context.Context) ([]*entity.Alert, error){
		s.ScanLowStock, s.ScanExpiry, s.ScanExpired, s.ScanImminentStockout,
	} {
		created, err := scan(ctx)
		all = append(all, created...)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return all, firstErr
}

// ScanLowStock insumos activos con cantidad < mínima.
func (s *Scanner) ScanLowStock(ctx context.Context) ([]*entity.Alert, error) {
	items, err := s.items.ListBelowMinimum(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar insumos bajo mínimo: %w", err)
	}
	var created []*entity.Alert
	for _, it := range items {
		a, err := s.factory.CreateLowStock(ctx, it)
		created = s.collect(created, a, err, KindLowStock, it.ID)
	}
	return created, nil
}

// ScanExpiry lotes activos con caducidad en [hoy, hoy+30].
func (s *Scanner) ScanExpiry(ctx context.Context) ([]*entity.Alert, error) {
	now := s.now()
	today := inventory.CivilDate(now)
	lots, err := s.lots.ListExpiringBetween(ctx, today, today.AddDate(0, 0, inventory.ExpiryWindowDays))
	if err != nil {
		return nil, fmt.Errorf("listar lotes por vencer: %w", err)
	}
	var created []*entity.Alert
	for _, l := range lots {
		days := inventory.DaysUntil(now, l.ExpiryDate)
		a, err := s.factory.CreateExpiryWarning(ctx, l, days)
		created = s.collect(created, a, err, KindExpiry, l.ID)
	}
	return created, nil
}

// ScanExpired lotes activos con caducidad anterior a hoy.
func (s *Scanner) ScanExpired(ctx context.Context) ([]*entity.Alert, error) {
	lots, err := s.lots.ListExpiredBefore(ctx, inventory.CivilDate(s.now()))
	if err != nil {
		return nil, fmt.Errorf("listar lotes vencidos: %w", err)
	}
	var created []*entity.Alert
	for _, l := range lots {
		a, err := s.factory.CreateExpired(ctx, l)
		created = s.collect(created, a, err, KindExpired, l.ID)
	}
	return created, nil
}

// ScanImminentStockout insumos activos con agotamiento previsto en 14 días o menos.
func (s *Scanner) ScanImminentStockout(ctx context.Context) ([]*entity.Alert, error) {
	items, err := s.items.ListByStatus(ctx, entity.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("listar insumos activos: %w", err)
	}
	var created []*entity.Alert
	for _, it := range items {
		days, err := s.predictor.PredictForItem(ctx, it)
		if err != nil {
			s.log.Warn().Err(err).Str("insumo_id", it.ID).Msg("predicción de agotamiento fallida")
			continue
		}
		if days == nil || *days > inventory.StockoutHorizonDays {
			continue
		}
		a, err := s.factory.CreateImminentStockout(ctx, it, *days)
		created = s.collect(created, a, err, KindImminentStockout, it.ID)
	}
	return created, nil
}

func (s *Scanner) collect(acc []*entity.Alert, a *entity.Alert, err error, scan, ref string) []*entity.Alert {
	if err != nil {
		s.log.Error().Err(err).Str("barrido", scan).Str("ref", ref).Msg("no se pudo crear la alerta")
		return acc
	}
	if a != nil {
		acc = append(acc, a)
	}
	return acc
}
