package alert

import (
	"time"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
)

// Icon ícono (Material Icons) según el tipo de alerta.
func Icon(t entity.AlertType) string {
	switch t {
	case entity.AlertLowStock:
		return "inventory"
	case entity.AlertExpiry:
		return "schedule"
	case entity.AlertExpired:
		return "error"
	case entity.AlertImminentStockout:
		return "trending_down"
	default:
		return "notifications"
	}
}

// Color color hexadecimal según la prioridad.
func Color(p entity.Priority) string {
	switch p {
	case entity.PriorityCritical:
		return "#DC2626"
	case entity.PriorityHigh:
		return "#EA580C"
	case entity.PriorityMedium:
		return "#F59E0B"
	case entity.PriorityLow:
		return "#3B82F6"
	default:
		return "#6B7280"
	}
}

// ToDTO mapea la entidad a su representación pública, calculando los campos derivados a la fecha now.
func ToDTO(a *entity.Alert, now time.Time) dto.AlertDTO {
	minutes := int64(now.Sub(a.CreatedAt) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	return dto.AlertDTO{
		ID:                   a.ID,
		Type:                 string(a.Type),
		Priority:             string(a.Priority),
		Title:                a.Title,
		Message:              a.Message,
		ItemID:               a.ItemID,
		ItemName:             a.ItemName,
		ItemCode:             a.ItemCode,
		LotID:                a.LotID,
		LotNumber:            a.LotNumber,
		Read:                 a.Read,
		CreatedAt:            a.CreatedAt,
		ReadAt:               a.ReadAt,
		Recipient:            a.Recipient,
		ExtraData:            a.ExtraData,
		Icon:                 Icon(a.Type),
		Color:                Color(a.Priority),
		Urgent:               a.Priority.Urgent(),
		MinutesSinceCreation: minutes,
	}
}

// ToDTOs mapea una lista; nunca devuelve nil.
func ToDTOs(list []*entity.Alert, now time.Time) []dto.AlertDTO {
	out := make([]dto.AlertDTO, 0, len(list))
	for _, a := range list {
		out = append(out, ToDTO(a, now))
	}
	return out
}
