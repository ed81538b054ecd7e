package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado de ciclo de vida compartido por insumos.
const (
	StatusActive   = "activo"
	StatusInactive = "inactivo"
)

// Nivel de alerta calculado del insumo.
const (
	LevelNormal   = "normal"
	LevelLow      = "bajo"
	LevelCritical = "critico"
)

// Item representa un insumo del laboratorio (unidad de stock trazable).
// AlertLevel es función pura de (Quantity, MinQuantity) y se recalcula en cada mutación.
type Item struct {
	ID            string
	Code          string // código de catálogo, único
	Name          string
	Description   string
	Unit          string
	Quantity      *decimal.Decimal // nil = desconocida
	MinQuantity   *decimal.Decimal
	UnitPrice     decimal.Decimal
	AvgDailyUsage decimal.Decimal
	DaysRemaining *int
	AlertLevel    string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive indica si el insumo participa en los barridos.
func (i *Item) IsActive() bool {
	return i.Status == StatusActive
}

// BelowMinimum true si la cantidad actual es estrictamente menor a la mínima.
func (i *Item) BelowMinimum() bool {
	if i.Quantity == nil || i.MinQuantity == nil {
		return false
	}
	return i.Quantity.LessThan(*i.MinQuantity)
}

// CurrentQuantity devuelve la cantidad o cero si es desconocida.
func (i *Item) CurrentQuantity() decimal.Decimal {
	if i.Quantity == nil {
		return decimal.Zero
	}
	return *i.Quantity
}
