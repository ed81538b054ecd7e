package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalDTO salida de inventario tal como se expone en consultas de consumo.
type WithdrawalDTO struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	ItemName        string          `json:"item_name,omitempty"`
	Date            string          `json:"date"` // YYYY-MM-DD
	Quantity        decimal.Decimal `json:"quantity"`
	Reason          string          `json:"reason,omitempty"`
	Responsible     string          `json:"responsible,omitempty"`
	DestinationArea string          `json:"destination_area,omitempty"`
}

// RegisterWithdrawalRequest body de POST /api/salidas.
type RegisterWithdrawalRequest struct {
	ItemID          string          `json:"item_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	Date            string          `json:"date,omitempty"` // YYYY-MM-DD, por defecto hoy
	Reason          string          `json:"reason" validate:"max=255"`
	Responsible     string          `json:"responsible" validate:"max=120"`
	DestinationArea string          `json:"destination_area" validate:"max=120"`
	Notes           string          `json:"notes,omitempty"`
	DocumentNumber  string          `json:"document_number,omitempty" validate:"max=60"`
}

// ConsumptionAverageDTO promedio diario de consumo en una ventana.
type ConsumptionAverageDTO struct {
	ItemID       string          `json:"item_id"`
	Days         int             `json:"days"`
	AverageDaily decimal.Decimal `json:"average_daily"`
}

// ConsumptionTotalDTO total consumido en una ventana.
type ConsumptionTotalDTO struct {
	ItemID string          `json:"item_id"`
	Days   int             `json:"days"`
	Total  decimal.Decimal `json:"total"`
}

// TrendDTO tendencia de consumo: creciente, decreciente o estable.
type TrendDTO struct {
	ItemID string `json:"item_id"`
	Trend  string `json:"trend"`
}

// StockoutPredictionDTO días estimados hasta agotamiento; nil si no hay señal.
type StockoutPredictionDTO struct {
	ItemID        string     `json:"item_id"`
	DaysRemaining *int       `json:"days_remaining"`
	StockoutDate  *time.Time `json:"stockout_date,omitempty"`
}
