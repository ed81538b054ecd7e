package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/inventory"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

// ItemUseCase alta y mantenimiento de insumos. El nivel de alerta se recalcula en cada mutación.
type ItemUseCase struct {
	items repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(items repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{items: items}
}

// Create registra un insumo activo.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemDTO, error) {
	if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if (in.Quantity != nil && in.Quantity.IsNegative()) || (in.MinQuantity != nil && in.MinQuantity.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Code:        strings.TrimSpace(in.Code),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Unit:        in.Unit,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		UnitPrice:   in.UnitPrice,
		Status:      entity.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	inventory.RefreshItem(item)
	if err := uc.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemDTO(item), nil
}

// Update modifica los campos presentes; domain.ErrNotFound si el insumo no existe.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemDTO, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.Quantity != nil {
		if in.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.Quantity = in.Quantity
	}
	if in.MinQuantity != nil {
		if in.MinQuantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.MinQuantity = in.MinQuantity
	}
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}
	if in.Status != nil {
		item.Status = *in.Status
	}
	item.UpdatedAt = time.Now()
	inventory.RefreshItem(item)
	if err := uc.items.Update(ctx, item); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toItemDTO(item), nil
}

// GetByID domain.ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemDTO, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemDTO(item), nil
}

// List todos los insumos.
func (uc *ItemUseCase) List(ctx context.Context) ([]*dto.ItemDTO, error) {
	list, err := uc.items.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemDTO, 0, len(list))
	for _, it := range list {
		out = append(out, toItemDTO(it))
	}
	return out, nil
}
