package inventory

import "github.com/shopspring/decimal"

// Clasificación de tendencia de consumo.
const (
	TrendRising  = "creciente"
	TrendFalling = "decreciente"
	TrendStable  = "estable"
)

var trendThreshold = decimal.NewFromInt(10)

// AverageDaily total / días. Cero si no hay consumo o la ventana no es positiva.
func AverageDaily(total decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !total.IsPositive() {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(days)))
}

// Trend compara el consumo reciente contra la ventana anterior (±10 %).
// Sin consumo previo siempre es estable.
func Trend(recent, prior decimal.Decimal) string {
	if !prior.IsPositive() {
		return TrendStable
	}
	change := recent.Sub(prior).Div(prior).Mul(hundred)
	switch {
	case change.GreaterThan(trendThreshold):
		return TrendRising
	case change.LessThan(trendThreshold.Neg()):
		return TrendFalling
	default:
		return TrendStable
	}
}

// DaysToStockout estima días hasta agotar el stock.
//   - cantidad desconocida: nil
//   - cantidad <= 0: 0
//   - promedio <= 0 (sin señal): nil
//   - en otro caso ceil(cantidad / promedio)
func DaysToStockout(quantity *decimal.Decimal, avgDaily decimal.Decimal) *int {
	if quantity == nil {
		return nil
	}
	if !quantity.IsPositive() {
		zero := 0
		return &zero
	}
	if !avgDaily.IsPositive() {
		return nil
	}
	days := int(quantity.Div(avgDaily).Ceil().IntPart())
	return &days
}
