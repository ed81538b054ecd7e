package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/inventory"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

// Factory traduce una condición detectada en una alerta concreta y suprime duplicados.
// Un (tipo, entidad) con alerta creada en las últimas 24 h no genera otra: el método
// devuelve (nil, nil), que no es un error.
type Factory struct {
	alerts repository.AlertRepository
	items  repository.ItemRepository
	lots   repository.LotRepository
	now    func() time.Time
}

// NewFactory construye la fábrica. clock nil usa time.Now.
func NewFactory(
	alerts repository.AlertRepository,
	items repository.ItemRepository,
	lots repository.LotRepository,
	clock func() time.Time,
) *Factory {
	if clock == nil {
		clock = time.Now
	}
	return &Factory{alerts: alerts, items: items, lots: lots, now: clock}
}

// CreateLowStock alerta STOCK_BAJO (prioridad fija ALTA).
func (f *Factory) CreateLowStock(ctx context.Context, item *entity.Item) (*entity.Alert, error) {
	a := f.newAlert(entity.AlertLowStock, entity.PriorityHigh)
	a.Title = "Stock Bajo: " + item.Name
	a.Message = fmt.Sprintf(
		"El insumo '%s' está por debajo del nivel mínimo. Cantidad actual: %s, Mínimo requerido: %s",
		item.Name, fixed(item.Quantity), fixed(item.MinQuantity),
	)
	a.ItemID = ptr(item.ID)
	a.ItemName, a.ItemCode = item.Name, item.Code
	return f.createDedup(ctx, a, repository.DedupKey{Type: a.Type, ItemID: item.ID})
}

// CreateExpiryWarning alerta CADUCIDAD con prioridad según días restantes.
func (f *Factory) CreateExpiryWarning(ctx context.Context, lot *entity.Lot, daysRemaining int) (*entity.Alert, error) {
	a := f.newAlert(entity.AlertExpiry, inventory.ExpiryPriority(daysRemaining))
	a.Title = "Lote próximo a vencer: " + lot.Number
	a.Message = fmt.Sprintf(
		"El lote '%s' del insumo '%s' vence en %d días. Fecha de caducidad: %s",
		lot.Number, lot.ItemName, daysRemaining, lot.ExpiryDate.Format(time.DateOnly),
	)
	f.attachLot(a, lot)
	return f.createDedup(ctx, a, repository.DedupKey{Type: a.Type, LotID: lot.ID})
}

// CreateExpired alerta VENCIDO, siempre CRITICA.
func (f *Factory) CreateExpired(ctx context.Context, lot *entity.Lot) (*entity.Alert, error) {
	a := f.newAlert(entity.AlertExpired, entity.PriorityCritical)
	a.Title = "Lote vencido: " + lot.Number
	a.Message = fmt.Sprintf(
		"El lote '%s' del insumo '%s' ha vencido. Fecha de caducidad: %s. Se recomienda retirar del inventario.",
		lot.Number, lot.ItemName, lot.ExpiryDate.Format(time.DateOnly),
	)
	f.attachLot(a, lot)
	return f.createDedup(ctx, a, repository.DedupKey{Type: a.Type, LotID: lot.ID})
}

// CreateImminentStockout alerta AGOTAMIENTO_PROXIMO con prioridad según días estimados.
func (f *Factory) CreateImminentStockout(ctx context.Context, item *entity.Item, estimatedDays int) (*entity.Alert, error) {
	a := f.newAlert(entity.AlertImminentStockout, inventory.StockoutPriority(estimatedDays))
	a.Title = "Agotamiento inminente: " + item.Name
	a.Message = fmt.Sprintf(
		"El insumo '%s' se agotará en aproximadamente %d días según el consumo actual. Se recomienda realizar un pedido de reposición.",
		item.Name, estimatedDays,
	)
	a.ItemID = ptr(item.ID)
	a.ItemName, a.ItemCode = item.Name, item.Code
	return f.createDedup(ctx, a, repository.DedupKey{Type: a.Type, ItemID: item.ID})
}

// CustomInput datos de una alerta manual.
type CustomInput struct {
	Type      entity.AlertType
	Priority  entity.Priority
	Title     string
	Message   string
	ItemID    *string
	LotID     *string
	Recipient string
	ExtraData string
}

// CreateCustom crea una alerta manual sin supresión de duplicados.
// Las referencias a insumo o lote se resuelven si existen; si no, se omiten sin error.
func (f *Factory) CreateCustom(ctx context.Context, in CustomInput) (*entity.Alert, error) {
	in.Type = entity.AlertType(strings.TrimSpace(string(in.Type)))
	if in.Type == "" || !in.Priority.Valid() || strings.TrimSpace(in.Title) == "" {
		return nil, domain.ErrInvalidInput
	}
	a := f.newAlert(in.Type, in.Priority)
	a.Title = in.Title
	a.Message = in.Message
	a.Recipient = in.Recipient
	a.ExtraData = in.ExtraData

	if in.ItemID != nil && *in.ItemID != "" {
		item, err := f.items.GetByID(ctx, *in.ItemID)
		if err != nil {
			return nil, fmt.Errorf("resolver insumo de alerta: %w", err)
		}
		if item != nil {
			a.ItemID = ptr(item.ID)
			a.ItemName, a.ItemCode = item.Name, item.Code
		}
	}
	if in.LotID != nil && *in.LotID != "" {
		lot, err := f.lots.GetByID(ctx, *in.LotID)
		if err != nil {
			return nil, fmt.Errorf("resolver lote de alerta: %w", err)
		}
		if lot != nil {
			a.LotID = ptr(lot.ID)
			a.LotNumber = lot.Number
		}
	}

	if err := f.alerts.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("guardar alerta: %w", err)
	}
	return a, nil
}

func (f *Factory) newAlert(t entity.AlertType, p entity.Priority) *entity.Alert {
	return &entity.Alert{
		ID:        uuid.NewString(),
		Type:      t,
		Priority:  p,
		Read:      false,
		CreatedAt: f.now(),
	}
}

func (f *Factory) attachLot(a *entity.Alert, lot *entity.Lot) {
	a.LotID = ptr(lot.ID)
	a.LotNumber = lot.Number
	if lot.ItemID != "" {
		a.ItemID = ptr(lot.ItemID)
		a.ItemName = lot.ItemName
	}
}

func (f *Factory) createDedup(ctx context.Context, a *entity.Alert, key repository.DedupKey) (*entity.Alert, error) {
	since := a.CreatedAt.Add(-inventory.DedupWindow)
	created, err := f.alerts.CreateIfAbsent(ctx, a, key, since)
	if err != nil {
		return nil, fmt.Errorf("guardar alerta %s: %w", key, err)
	}
	if !created {
		return nil, nil
	}
	return a, nil
}

func fixed(d *decimal.Decimal) string {
	if d == nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func ptr(s string) *string { return &s }
