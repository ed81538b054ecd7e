package dto

// ForecastPoint un día de la proyección de stock del servicio de predicción.
type ForecastPoint struct {
	Day            int     `json:"dia"`
	Date           string  `json:"fecha"`
	EstimatedStock float64 `json:"stock_estimado"`
}

// ForecastDTO respuesta del servicio externo de predicción (campos en el formato del servicio).
type ForecastDTO struct {
	ItemID            any             `json:"insumo_id"`
	Name              string          `json:"nombre"`
	CurrentStock      float64         `json:"existencia_actual"`
	AverageDaily      float64         `json:"promedio_diario"`
	DaysRemaining     *float64        `json:"dias_restantes"`
	RiskLevel         string          `json:"nivel_riesgo"`
	Recommendation    string          `json:"recomendacion"`
	SuggestedOrderQty float64         `json:"cantidad_sugerida_pedido"`
	Projection30Days  []ForecastPoint `json:"proyeccion_30_dias"`
}

// ForecastResult resultado estructurado: nunca se propaga como error duro.
// Si Available es false, Error describe la falla.
type ForecastResult struct {
	Available bool         `json:"available"`
	Forecast  *ForecastDTO `json:"forecast,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// PrecisionResult métrica de precisión del modelo o error estructurado.
type PrecisionResult struct {
	Available bool     `json:"available"`
	Precision *float64 `json:"precision,omitempty"`
	Error     string   `json:"error,omitempty"`
}
