package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-lab/internal/domain/entity"
)

// LotRepository puerto de persistencia de lotes (DIP).
// Las fechas son fechas civiles (medianoche UTC).
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	Update(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// ListExpiringBetween lotes activos con caducidad en [from, to], ordenados por caducidad ASC.
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Lot, error)
	// ListExpiredBefore lotes activos con caducidad < date.
	ListExpiredBefore(ctx context.Context, date time.Time) ([]*entity.Lot, error)
	// ListAvailableByItem lotes activos con cantidad > 0 en orden FEFO.
	ListAvailableByItem(ctx context.Context, itemID string) ([]*entity.Lot, error)
}
