package ports

import (
	"context"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
)

// ForecastService puerto de salida hacia el servicio externo de predicción de consumo.
// Las implementaciones no devuelven error: cualquier falla de transporte se convierte
// en un resultado con Available=false, porque el servicio es opcional.
// El contexto debe llevar un timeout.
type ForecastService interface {
	Predict(ctx context.Context, itemID string) dto.ForecastResult
	Precision(ctx context.Context) dto.PrecisionResult
}
