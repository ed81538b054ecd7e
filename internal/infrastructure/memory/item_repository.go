package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s *Store
}

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.Code == item.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

// GetForUpdate en memoria la serialización la da TxRunner.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) List(_ context.Context) ([]*entity.Item, error) {
	return r.filter(func(*entity.Item) bool { return true }), nil
}

func (r *ItemRepo) ListByStatus(_ context.Context, status string) ([]*entity.Item, error) {
	return r.filter(func(it *entity.Item) bool { return it.Status == status }), nil
}

func (r *ItemRepo) ListBelowMinimum(_ context.Context) ([]*entity.Item, error) {
	return r.filter(func(it *entity.Item) bool { return it.IsActive() && it.BelowMinimum() }), nil
}

func (r *ItemRepo) filter(keep func(*entity.Item) bool) []*entity.Item {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		if keep(it) {
			cp := *it
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
