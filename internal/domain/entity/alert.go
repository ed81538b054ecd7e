package entity

import "time"

// AlertType tipo de alerta. Además de los predefinidos se aceptan tipos libres (alertas personalizadas).
type AlertType string

const (
	AlertLowStock         AlertType = "STOCK_BAJO"
	AlertExpiry           AlertType = "CADUCIDAD"
	AlertExpired          AlertType = "VENCIDO"
	AlertImminentStockout AlertType = "AGOTAMIENTO_PROXIMO"
	AlertSystem           AlertType = "SISTEMA"
)

// Priority prioridad ordenada; CRITICA es la más alta.
type Priority string

const (
	PriorityCritical Priority = "CRITICA"
	PriorityHigh     Priority = "ALTA"
	PriorityMedium   Priority = "MEDIA"
	PriorityLow      Priority = "BAJA"
)

// Priorities en orden descendente de severidad.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Rank devuelve 4 para CRITICA ... 1 para BAJA; 0 si no es válida.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid true si la prioridad pertenece al conjunto conocido.
func (p Priority) Valid() bool { return p.Rank() > 0 }

// Urgent CRITICA o ALTA.
func (p Priority) Urgent() bool { return p.Rank() >= PriorityHigh.Rank() }

// Alert notificación generada por una condición de inventario.
// ItemID/LotID son referencias débiles (solo consulta); ItemName, ItemCode y LotNumber
// los llena el repositorio en lecturas.
type Alert struct {
	ID        string
	Type      AlertType
	Priority  Priority
	Title     string
	Message   string
	ItemID    *string
	LotID     *string
	Read      bool
	CreatedAt time.Time
	ReadAt    *time.Time
	Recipient string
	ExtraData string

	ItemName  string
	ItemCode  string
	LotNumber string
}

// MarkRead transición única a leída; llamadas posteriores no cambian ReadAt.
func (a *Alert) MarkRead(now time.Time) {
	if a.Read {
		return
	}
	a.Read = true
	a.ReadAt = &now
}
