package prediction_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lab/internal/infrastructure/prediction"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

const forecastJSON = `{
  "insumo_id": 7,
  "nombre": "Tubos EDTA",
  "existencia_actual": 120,
  "promedio_diario": 12.5,
  "dias_restantes": 9.6,
  "nivel_riesgo": "ALTO",
  "recomendacion": "Realizar pedido",
  "cantidad_sugerida_pedido": 255,
  "proyeccion_30_dias": [{"dia": 1, "fecha": "2026-06-02", "stock_estimado": 107.5}]
}`

func newServer(t *testing.T, h http.HandlerFunc) *prediction.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return prediction.NewClient(srv.URL+"/api/prediccion", time.Second, logger.Nop())
}

func TestPredict_DecodificaPronostico(t *testing.T) {
	var path string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastJSON))
	})

	res := c.Predict(context.Background(), "7")

	require.True(t, res.Available, res.Error)
	assert.Equal(t, "/api/prediccion/predecir/7", path)
	assert.Equal(t, "Tubos EDTA", res.Forecast.Name)
	require.NotNil(t, res.Forecast.DaysRemaining)
	assert.InDelta(t, 9.6, *res.Forecast.DaysRemaining, 0.001)
	require.Len(t, res.Forecast.Projection30Days, 1)
	assert.Equal(t, "2026-06-02", res.Forecast.Projection30Days[0].Date)
}

func TestPredict_ErrorDelServicio(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "Insumo no encontrado"}`))
	})

	res := c.Predict(context.Background(), "99")

	assert.False(t, res.Available)
	assert.Contains(t, res.Error, "Insumo no encontrado")
	assert.Nil(t, res.Forecast)
}

func TestPredict_ServicioCaido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	c := prediction.NewClient(srv.URL, time.Second, nil)

	res := c.Predict(context.Background(), "1")

	assert.False(t, res.Available)
	assert.Contains(t, res.Error, "no se pudo conectar")
}

func TestPredict_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	c := prediction.NewClient(srv.URL, 50*time.Millisecond, nil)

	res := c.Predict(context.Background(), "1")

	assert.False(t, res.Available)
	assert.Contains(t, res.Error, "timeout")
}

func TestPrecision_PorDefectoCero(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/prediccion/precision", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	})

	res := c.Precision(context.Background())

	require.True(t, res.Available)
	require.NotNil(t, res.Precision)
	assert.Equal(t, 0.0, *res.Precision)
}

func TestPrecision_Valor(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"precision": 0.87}`))
	})

	res := c.Precision(context.Background())

	require.True(t, res.Available)
	assert.InDelta(t, 0.87, *res.Precision, 0.0001)
}
