package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	LotActive   = "activo"
	LotDepleted = "agotado"
	LotExpired  = "vencido"
	LotRetired  = "retirado"
)

// Lot lote fechado de un insumo con su propia caducidad y cantidad.
// ItemName se llena solo en lecturas (join con insumos).
type Lot struct {
	ID              string
	ItemID          string
	ItemName        string
	Number          string // número de lote, único
	ManufactureDate *time.Time
	ExpiryDate      time.Time
	InitialQuantity decimal.Decimal
	Quantity        decimal.Decimal
	Supplier        string
	Location        string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive indica si el lote sigue disponible para consumo y alertas.
func (l *Lot) IsActive() bool {
	return l.Status == LotActive
}
