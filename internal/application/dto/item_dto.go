package dto

import "github.com/shopspring/decimal"

// CreateItemRequest body de POST /api/insumos.
type CreateItemRequest struct {
	Code        string           `json:"code" validate:"required,max=50"`
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description,omitempty"`
	Unit        string           `json:"unit,omitempty" validate:"max=30"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
}

// UpdateItemRequest body de PUT /api/insumos/:id. Campos nil no se modifican.
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string          `json:"description,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Status      *string          `json:"status,omitempty" validate:"omitempty,oneof=activo inactivo"`
}

// ItemDTO insumo en respuestas.
type ItemDTO struct {
	ID            string           `json:"id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Unit          string           `json:"unit,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity"`
	MinQuantity   *decimal.Decimal `json:"min_quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	AvgDailyUsage decimal.Decimal  `json:"avg_daily_usage"`
	DaysRemaining *int             `json:"days_remaining"`
	AlertLevel    string           `json:"alert_level"`
	Status        string           `json:"status"`
}
