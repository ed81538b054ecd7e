package dto

import (
	"github.com/shopspring/decimal"
)

// CreateLotRequest body de POST /api/lotes.
type CreateLotRequest struct {
	ItemID          string          `json:"item_id" validate:"required"`
	Number          string          `json:"number" validate:"required,max=60"`
	ManufactureDate string          `json:"manufacture_date,omitempty"` // YYYY-MM-DD
	ExpiryDate      string          `json:"expiry_date" validate:"required"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	Quantity        decimal.Decimal `json:"quantity"`
	Supplier        string          `json:"supplier,omitempty" validate:"max=150"`
	Location        string          `json:"location,omitempty" validate:"max=120"`
}

// UpdateLotRequest body de PUT /api/lotes/:id. Campos nil no se modifican.
type UpdateLotRequest struct {
	ExpiryDate *string          `json:"expiry_date,omitempty"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	Supplier   *string          `json:"supplier,omitempty"`
	Location   *string          `json:"location,omitempty"`
	Status     *string          `json:"status,omitempty" validate:"omitempty,oneof=activo agotado vencido retirado"`
}

// LotDTO lote en respuestas.
type LotDTO struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	ItemName        string          `json:"item_name,omitempty"`
	Number          string          `json:"number"`
	ManufactureDate string          `json:"manufacture_date,omitempty"`
	ExpiryDate      string          `json:"expiry_date"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	Quantity        decimal.Decimal `json:"quantity"`
	Supplier        string          `json:"supplier,omitempty"`
	Location        string          `json:"location,omitempty"`
	Status          string          `json:"status"`
}

// LotExpiryDTO lote con días a caducidad y nivel genérico (vencido, critico, medio, bajo).
type LotExpiryDTO struct {
	LotDTO
	DaysToExpiry int    `json:"days_to_expiry"`
	ExpiryLevel  string `json:"expiry_level"`
}
