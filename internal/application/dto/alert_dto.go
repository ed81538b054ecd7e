package dto

import "time"

// AlertDTO representación de una alerta para API, websocket y broker.
// Icon, Color, Urgent y MinutesSinceCreation se derivan del tipo, la prioridad y la fecha.
type AlertDTO struct {
	ID                   string     `json:"id"`
	Type                 string     `json:"type"`
	Priority             string     `json:"priority"`
	Title                string     `json:"title"`
	Message              string     `json:"message"`
	ItemID               *string    `json:"item_id,omitempty"`
	ItemName             string     `json:"item_name,omitempty"`
	ItemCode             string     `json:"item_code,omitempty"`
	LotID                *string    `json:"lot_id,omitempty"`
	LotNumber            string     `json:"lot_number,omitempty"`
	Read                 bool       `json:"read"`
	CreatedAt            time.Time  `json:"created_at"`
	ReadAt               *time.Time `json:"read_at,omitempty"`
	Recipient            string     `json:"recipient,omitempty"`
	ExtraData            string     `json:"extra_data,omitempty"`
	Icon                 string     `json:"icon"`
	Color                string     `json:"color"`
	Urgent               bool       `json:"urgent"`
	MinutesSinceCreation int64      `json:"minutes_since_creation"`
}

// CreateCustomAlertRequest body para crear una alerta manual.
type CreateCustomAlertRequest struct {
	Type     string  `json:"type" validate:"required,max=50"`
	Priority string  `json:"priority" validate:"required,oneof=CRITICA ALTA MEDIA BAJA"`
	Title    string  `json:"title" validate:"required,max=200"`
	Message  string  `json:"message" validate:"required"`
	ItemID   *string `json:"item_id,omitempty"`
	LotID    *string `json:"lot_id,omitempty"`
}

// EmergencyAlertRequest body para POST /api/websocket/emergencia.
type EmergencyAlertRequest struct {
	Title   string  `json:"title" validate:"required,max=200"`
	Message string  `json:"message" validate:"required"`
	ItemID  *string `json:"item_id,omitempty"`
}

// BroadcastRequest mensaje de sistema difundido a todos los clientes.
type BroadcastRequest struct {
	Message  string `query:"mensaje"`
	Priority string `query:"prioridad" validate:"omitempty,oneof=CRITICA ALTA MEDIA BAJA"`
}

// TestAlertRequest parámetros de POST /api/websocket/test; vacíos toman valores por defecto.
type TestAlertRequest struct {
	Title    string `query:"titulo" validate:"max=200"`
	Type     string `query:"tipo" validate:"max=50"`
	Priority string `query:"prioridad" validate:"omitempty,oneof=CRITICA ALTA MEDIA BAJA"`
}

// PublishedDTO cantidad de alertas enviadas a los suscriptores.
type PublishedDTO struct {
	Published int `json:"published"`
}

// AlertStatsDTO estadísticas del almacén de alertas.
type AlertStatsDTO struct {
	Total            int            `json:"total"`
	Unread           int            `json:"unread"`
	UnreadByPriority map[string]int `json:"unread_by_priority"`
	ByType           map[string]int `json:"by_type"`
}

// AlertSummaryDTO resumen rápido para el tablero.
type AlertSummaryDTO struct {
	Unread int `json:"unread"`
	Urgent int `json:"urgent"`
	Today  int `json:"today"`
}

// ScanResultDTO resultado de un barrido: solo las alertas efectivamente creadas.
type ScanResultDTO struct {
	Scan    string     `json:"scan"`
	Created int        `json:"created"`
	Alerts  []AlertDTO `json:"alerts"`
}

// PurgeResultDTO resultado de la limpieza de alertas leídas antiguas.
type PurgeResultDTO struct {
	RetentionDays int   `json:"retention_days"`
	Deleted       int64 `json:"deleted"`
}

// WeeklyReportDTO conteos por prioridad usados en el reporte semanal.
type WeeklyReportDTO struct {
	GeneratedAt      time.Time      `json:"generated_at"`
	Unread           int            `json:"unread"`
	UnreadByPriority map[string]int `json:"unread_by_priority"`
	Urgent           []AlertDTO     `json:"urgent"`
}
