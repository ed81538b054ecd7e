package redisstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/redisstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

type mapKV struct {
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMapKV() *mapKV {
	return &mapKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mapKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

type countingForecast struct {
	calls     int
	available bool
}

func (c *countingForecast) Predict(_ context.Context, itemID string) dto.ForecastResult {
	c.calls++
	if !c.available {
		return dto.ForecastResult{Error: "caído"}
	}
	return dto.ForecastResult{Available: true, Forecast: &dto.ForecastDTO{ItemID: itemID, Name: "Tubos"}}
}

func (c *countingForecast) Precision(context.Context) dto.PrecisionResult {
	c.calls++
	p := 0.9
	return dto.PrecisionResult{Available: c.available, Precision: &p}
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos
// ──────────────────────────────────────────────────────────────────────────────

func TestCachedForecast_SegundaLlamadaDesdeCache(t *testing.T) {
	inner := &countingForecast{available: true}
	kv := newMapKV()
	c := redisstore.NewCachedForecast(inner, kv, 5*time.Minute, nil)

	first := c.Predict(context.Background(), "7")
	second := c.Predict(context.Background(), "7")

	require.True(t, second.Available)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.Forecast.Name, second.Forecast.Name)
	assert.Equal(t, 5*time.Minute, kv.ttls["inventario:prediccion:insumo:7"])
}

func TestCachedForecast_NoGuardaFallas(t *testing.T) {
	inner := &countingForecast{available: false}
	kv := newMapKV()
	c := redisstore.NewCachedForecast(inner, kv, time.Minute, nil)

	c.Predict(context.Background(), "7")
	c.Predict(context.Background(), "7")

	assert.Equal(t, 2, inner.calls)
	assert.Empty(t, kv.data)
}

func TestCachedForecast_RedisCaidoConsultaServicio(t *testing.T) {
	inner := &countingForecast{available: true}
	kv := newMapKV()
	kv.err = errors.New("connection refused")
	c := redisstore.NewCachedForecast(inner, kv, time.Minute, nil)

	res := c.Precision(context.Background())

	assert.True(t, res.Available)
	assert.InDelta(t, 0.9, *res.Precision, 0.0001)
	assert.Equal(t, 1, inner.calls)
}
