package consumption

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/inventory"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

// Analyzer calcula agregados de consumo, tendencia y predicción de agotamiento
// a partir del libro de salidas.
//
// Las ventanas de N días cubren [hoy-N+1, hoy]: incluyen hoy y excluyen el borde "hace N días".
type Analyzer struct {
	items       repository.ItemRepository
	withdrawals repository.WithdrawalRepository
	now         func() time.Time
}

// NewAnalyzer construye el analizador. clock nil usa time.Now.
func NewAnalyzer(items repository.ItemRepository, withdrawals repository.WithdrawalRepository, clock func() time.Time) *Analyzer {
	if clock == nil {
		clock = time.Now
	}
	return &Analyzer{items: items, withdrawals: withdrawals, now: clock}
}

// window devuelve [hoy-days+1, hoy] desplazado offset días hacia atrás.
func (a *Analyzer) window(days, offset int) (time.Time, time.Time) {
	today := inventory.CivilDate(a.now())
	to := today.AddDate(0, 0, -offset)
	from := to.AddDate(0, 0, -(days - 1))
	return from, to
}

// History salidas del insumo en la ventana, en orden de fecha ascendente.
// Sin registros devuelve un slice vacío, no un error.
func (a *Analyzer) History(ctx context.Context, itemID string, days int) ([]dto.WithdrawalDTO, error) {
	if days <= 0 {
		return nil, domain.ErrInvalidInput
	}
	from, to := a.window(days, 0)
	list, err := a.withdrawals.ListByItemBetween(ctx, itemID, from, to)
	if err != nil {
		return nil, err
	}
	return toWithdrawalDTOs(list), nil
}

// Total cantidad retirada en la ventana; cero si no hay salidas.
func (a *Analyzer) Total(ctx context.Context, itemID string, days int) (decimal.Decimal, error) {
	if days <= 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	from, to := a.window(days, 0)
	return a.withdrawals.SumByItemBetween(ctx, itemID, from, to)
}

// AverageDaily total de la ventana dividido entre days.
func (a *Analyzer) AverageDaily(ctx context.Context, itemID string, days int) (decimal.Decimal, error) {
	total, err := a.Total(ctx, itemID, days)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.AverageDaily(total, days), nil
}

// Trend compara los últimos 30 días con los 30 anteriores.
func (a *Analyzer) Trend(ctx context.Context, itemID string) (string, error) {
	n := inventory.ConsumptionWindowDays
	recentFrom, recentTo := a.window(n, 0)
	priorFrom, priorTo := a.window(n, n)

	recent, err := a.withdrawals.SumByItemBetween(ctx, itemID, recentFrom, recentTo)
	if err != nil {
		return "", err
	}
	prior, err := a.withdrawals.SumByItemBetween(ctx, itemID, priorFrom, priorTo)
	if err != nil {
		return "", err
	}
	return inventory.Trend(recent, prior), nil
}

// PredictDaysToStockout días hasta agotamiento con el promedio de 30 días.
// nil si el insumo no existe, su cantidad es desconocida o no hay consumo.
func (a *Analyzer) PredictDaysToStockout(ctx context.Context, itemID string) (*int, error) {
	item, err := a.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return a.PredictForItem(ctx, item)
}

// PredictForItem igual que PredictDaysToStockout con el insumo ya cargado (uso del escáner).
func (a *Analyzer) PredictForItem(ctx context.Context, item *entity.Item) (*int, error) {
	if item.Quantity == nil {
		return nil, nil
	}
	if !item.Quantity.IsPositive() {
		return inventory.DaysToStockout(item.Quantity, decimal.Zero), nil
	}
	avg, err := a.AverageDaily(ctx, item.ID, inventory.ConsumptionWindowDays)
	if err != nil {
		return nil, err
	}
	return inventory.DaysToStockout(item.Quantity, avg), nil
}

// StockoutPrediction predicción con fecha estimada de agotamiento.
func (a *Analyzer) StockoutPrediction(ctx context.Context, itemID string) (dto.StockoutPredictionDTO, error) {
	out := dto.StockoutPredictionDTO{ItemID: itemID}
	days, err := a.PredictDaysToStockout(ctx, itemID)
	if err != nil {
		return out, err
	}
	out.DaysRemaining = days
	if days != nil {
		d := inventory.CivilDate(a.now()).AddDate(0, 0, *days)
		out.StockoutDate = &d
	}
	return out, nil
}

// InRange salidas de todos los insumos entre from y to (inclusive).
func (a *Analyzer) InRange(ctx context.Context, from, to time.Time) ([]dto.WithdrawalDTO, error) {
	from, to = inventory.CivilDate(from), inventory.CivilDate(to)
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	list, err := a.withdrawals.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toWithdrawalDTOs(list), nil
}

func toWithdrawalDTOs(list []*entity.Withdrawal) []dto.WithdrawalDTO {
	out := make([]dto.WithdrawalDTO, 0, len(list))
	for _, w := range list {
		out = append(out, dto.WithdrawalDTO{
			ID:              w.ID,
			ItemID:          w.ItemID,
			ItemName:        w.ItemName,
			Date:            w.Date.Format(time.DateOnly),
			Quantity:        w.Quantity,
			Reason:          w.Reason,
			Responsible:     w.Responsible,
			DestinationArea: w.DestinationArea,
		})
	}
	return out
}
