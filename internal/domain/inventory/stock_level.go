package inventory

import (
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ItemAlertLevel calcula el nivel de alerta del insumo (servicio de dominio).
// pct = actual / mínima * 100; <= 25 critico, <= 50 bajo, resto normal.
// Con cantidades desconocidas o mínima en cero el nivel es normal.
func ItemAlertLevel(quantity, minQuantity *decimal.Decimal) string {
	if quantity == nil || minQuantity == nil || !minQuantity.IsPositive() {
		return entity.LevelNormal
	}
	pct := quantity.Div(*minQuantity).Mul(hundred)
	switch {
	case pct.LessThanOrEqual(decimal.NewFromInt(25)):
		return entity.LevelCritical
	case pct.LessThanOrEqual(decimal.NewFromInt(50)):
		return entity.LevelLow
	default:
		return entity.LevelNormal
	}
}

// RefreshItem recalcula los campos derivados del insumo. Se invoca en cada mutación.
func RefreshItem(it *entity.Item) {
	it.AlertLevel = ItemAlertLevel(it.Quantity, it.MinQuantity)
	it.DaysRemaining = DaysToStockout(it.Quantity, it.AvgDailyUsage)
}
