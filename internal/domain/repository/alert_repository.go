package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-lab/internal/domain/entity"
)

// DedupKey identifica el par (tipo, entidad) para la supresión de duplicados.
// Las alertas de insumo usan ItemID; las de lote usan LotID.
type DedupKey struct {
	Type   entity.AlertType
	ItemID string
	LotID  string
}

// String forma canónica, usada también como clave de bloqueo.
func (k DedupKey) String() string {
	if k.LotID != "" {
		return fmt.Sprintf("%s:lote:%s", k.Type, k.LotID)
	}
	return fmt.Sprintf("%s:insumo:%s", k.Type, k.ItemID)
}

// AlertFilter criterios opcionales de consulta; los campos vacíos no filtran.
type AlertFilter struct {
	Read       *bool
	Type       entity.AlertType
	Priorities []entity.Priority
	ItemID     string
	LotID      string
	Since      *time.Time // created_at >= Since
	Until      *time.Time // created_at < Until
}

// AlertRepository puerto del almacén de alertas (DIP).
// Los listados se ordenan por created_at DESC, id DESC.
type AlertRepository interface {
	Create(ctx context.Context, a *entity.Alert) error
	// CreateIfAbsent inserta solo si no existe una alerta con la misma clave creada después de since.
	// La verificación y la inserción son atómicas. Devuelve false si se suprimió.
	CreateIfAbsent(ctx context.Context, a *entity.Alert, key DedupKey, since time.Time) (bool, error)
	ExistsSince(ctx context.Context, key DedupKey, since time.Time) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	Find(ctx context.Context, f AlertFilter) ([]*entity.Alert, error)
	// MarkRead fija leida=true y fecha_lectura solo si aún no estaba leída.
	MarkRead(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	CountUnread(ctx context.Context) (int, error)
	CountUnreadByPriority(ctx context.Context) (map[entity.Priority]int, error)
	CountByType(ctx context.Context) (map[entity.AlertType]int, error)
	Count(ctx context.Context) (int, error)
	// DeleteReadOlderThan borra alertas leídas con created_at < before; devuelve cuántas.
	DeleteReadOlderThan(ctx context.Context, before time.Time) (int64, error)
}
