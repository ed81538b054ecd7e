package consumption_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lab/internal/application/consumption"
	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

func today() time.Time { return time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC) }

func newAnalyzer(t *testing.T) (*consumption.Analyzer, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	a := consumption.NewAnalyzer(store.Items(), store.Withdrawals(), func() time.Time { return fixedNow })
	return a, store
}

func addItem(t *testing.T, store *memory.Store, id string, qty *decimal.Decimal) {
	t.Helper()
	minimum := decimal.NewFromInt(20)
	require.NoError(t, store.Items().Create(context.Background(), &entity.Item{
		ID: id, Code: "COD-" + id, Name: "Insumo " + id,
		Quantity: qty, MinQuantity: &minimum, Status: entity.StatusActive,
	}))
}

func addWithdrawal(t *testing.T, store *memory.Store, itemID string, daysAgo int, qty int64) {
	t.Helper()
	require.NoError(t, store.Withdrawals().Create(context.Background(), &entity.Withdrawal{
		ID:       fmt.Sprintf("%s-%d-%d", itemID, daysAgo, qty),
		ItemID:   itemID,
		Quantity: decimal.NewFromInt(qty),
		Date:     today().AddDate(0, 0, -daysAgo),
	}))
}

func qty(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregados
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_SinSalidasDevuelveVacio(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "a", qty(10))

	list, err := a.History(context.Background(), "a", 30)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestHistory_VentanaExcluyeBordeInferior(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "a", qty(10))
	addWithdrawal(t, store, "a", 0, 1)
	addWithdrawal(t, store, "a", 6, 2)
	addWithdrawal(t, store, "a", 7, 4) // hoy-7 queda fuera de una ventana de 7 días

	list, err := a.History(context.Background(), "a", 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-05-14", list[0].Date, "orden ascendente por fecha")
	assert.Equal(t, "2026-05-20", list[1].Date)
}

func TestHistory_DiasInvalidos(t *testing.T) {
	a, _ := newAnalyzer(t)
	_, err := a.History(context.Background(), "a", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTotalYPromedio(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "a", qty(10))
	addWithdrawal(t, store, "a", 1, 15)
	addWithdrawal(t, store, "a", 2, 15)

	total, err := a.Total(context.Background(), "a", 30)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(30)))

	avg, err := a.AverageDaily(context.Background(), "a", 30)
	require.NoError(t, err)
	assert.True(t, avg.Equal(decimal.NewFromInt(1)))

	avg, err = a.AverageDaily(context.Background(), "otro", 30)
	require.NoError(t, err)
	assert.True(t, avg.IsZero(), "sin salidas el promedio es 0")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tendencia
// ──────────────────────────────────────────────────────────────────────────────

func TestTrend_Creciente(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "a", qty(10))
	addWithdrawal(t, store, "a", 5, 120)  // ventana reciente
	addWithdrawal(t, store, "a", 40, 100) // ventana previa

	trend, err := a.Trend(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "creciente", trend)
}

func TestTrend_Decreciente(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "a", qty(10))
	addWithdrawal(t, store, "a", 29, 50)
	addWithdrawal(t, store, "a", 30, 100) // primer día de la ventana previa

	trend, err := a.Trend(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "decreciente", trend)
}

func TestTrend_SinVentanaPreviaEsEstable(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "a", qty(10))
	addWithdrawal(t, store, "a", 1, 500)

	trend, err := a.Trend(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "estable", trend)
}

// ──────────────────────────────────────────────────────────────────────────────
// Predicción de agotamiento
// ──────────────────────────────────────────────────────────────────────────────

func TestPredict_Escenario100ConPromedio10(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "a", qty(100))
	for d := 0; d < 30; d++ {
		addWithdrawal(t, store, "a", d, 10)
	}
	addWithdrawal(t, store, "a", 30, 1000) // fuera de la ventana de 30 días

	days, err := a.PredictDaysToStockout(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, days)
	assert.Equal(t, 10, *days)

	pred, err := a.StockoutPrediction(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, pred.StockoutDate)
	assert.Equal(t, "2026-05-30", pred.StockoutDate.Format(time.DateOnly))
}

func TestPredict_SinConsumoEsNil(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "a", qty(100))

	days, err := a.PredictDaysToStockout(context.Background(), "a")
	require.NoError(t, err)
	assert.Nil(t, days)
}

func TestPredict_InsumoDesconocidoOCantidadNula(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "sin-cantidad", nil)

	days, err := a.PredictDaysToStockout(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, days)

	days, err = a.PredictDaysToStockout(context.Background(), "sin-cantidad")
	require.NoError(t, err)
	assert.Nil(t, days)
}

func TestPredict_StockAgotadoEsCero(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "a", qty(0))

	days, err := a.PredictDaysToStockout(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, days)
	assert.Equal(t, 0, *days)
}

func TestInRange_RangoInvertido(t *testing.T) {
	a, _ := newAnalyzer(t)
	_, err := a.InRange(context.Background(), today(), today().AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInRange_IncluyeNombreDelInsumo(t *testing.T) {
	a, store := newAnalyzer(t)
	addItem(t, store, "a", qty(10))
	addWithdrawal(t, store, "a", 3, 2)

	list, err := a.InRange(context.Background(), today().AddDate(0, 0, -5), today())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Insumo a", list[0].ItemName)
}
