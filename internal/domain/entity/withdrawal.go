package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal salida de inventario. Inmutable: es el libro de registro del que se deriva el consumo.
type Withdrawal struct {
	ID              string
	ItemID          string
	ItemName        string // solo lectura
	Quantity        decimal.Decimal
	Date            time.Time // fecha (sin hora) de la salida
	Reason          string
	Responsible     string
	DestinationArea string
	Notes           string
	DocumentNumber  string
	CreatedAt       time.Time
}
