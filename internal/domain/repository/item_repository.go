package repository

import (
	"context"

	"github.com/jhoicas/inventario-lab/internal/domain/entity"
)

// ItemRepository puerto de persistencia de insumos (DIP).
// GetByID devuelve (nil, nil) si el insumo no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	Update(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate igual que GetByID pero bloquea la fila dentro de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context) ([]*entity.Item, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Item, error)
	// ListBelowMinimum insumos activos con cantidad actual < cantidad mínima.
	ListBelowMinimum(ctx context.Context) ([]*entity.Item, error)
}
