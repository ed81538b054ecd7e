package inventory

import (
	"time"

	"github.com/jhoicas/inventario-lab/internal/domain/entity"
)

// Ventanas de detección del barrido.
const (
	ExpiryWindowDays      = 30
	StockoutHorizonDays   = 14
	DedupWindow           = 24 * time.Hour
	ConsumptionWindowDays = 30
)

// Niveles de caducidad para presentación de lotes (no determinan la prioridad de alertas).
const (
	ExpiryLevelExpired  = "vencido"
	ExpiryLevelCritical = "critico"
	ExpiryLevelMedium   = "medio"
	ExpiryLevelLow      = "bajo"
)

// ExpiryPriority prioridad de una alerta CADUCIDAD: <= 7 días CRITICA, <= 15 ALTA, resto MEDIA.
func ExpiryPriority(daysRemaining int) entity.Priority {
	switch {
	case daysRemaining <= 7:
		return entity.PriorityCritical
	case daysRemaining <= 15:
		return entity.PriorityHigh
	default:
		return entity.PriorityMedium
	}
}

// StockoutPriority prioridad de AGOTAMIENTO_PROXIMO: <= 3 días CRITICA, <= 7 ALTA, resto MEDIA.
func StockoutPriority(estimatedDays int) entity.Priority {
	switch {
	case estimatedDays <= 3:
		return entity.PriorityCritical
	case estimatedDays <= 7:
		return entity.PriorityHigh
	default:
		return entity.PriorityMedium
	}
}

// ExpiryLevel clasificación genérica de un lote según días a caducidad.
func ExpiryLevel(daysRemaining int) string {
	switch {
	case daysRemaining < 0:
		return ExpiryLevelExpired
	case daysRemaining <= 7:
		return ExpiryLevelCritical
	case daysRemaining <= 30:
		return ExpiryLevelMedium
	default:
		return ExpiryLevelLow
	}
}

// StartOfDay medianoche de t en su zona.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CivilDate normaliza t a la fecha civil en UTC, formato usado por las columnas DATE.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil días calendario entre from y to (negativo si to ya pasó).
// Compara fechas civiles, cada una en su propia zona: las columnas DATE llegan en UTC.
func DaysUntil(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
