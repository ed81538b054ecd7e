package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación en memoria de LotRepository.
type LotRepo struct {
	s *Store
}

func (r *LotRepo) Create(_ context.Context, lot *entity.Lot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.lots {
		if l.Number == lot.Number {
			return domain.ErrDuplicate
		}
	}
	cp := *lot
	r.s.lots[lot.ID] = &cp
	return nil
}

func (r *LotRepo) Update(_ context.Context, lot *entity.Lot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lots[lot.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *lot
	r.s.lots[lot.ID] = &cp
	return nil
}

func (r *LotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	cp.ItemName = r.s.itemName(l.ItemID)
	return &cp, nil
}

func (r *LotRepo) ListExpiringBetween(_ context.Context, from, to time.Time) ([]*entity.Lot, error) {
	return r.filter(func(l *entity.Lot) bool {
		return l.IsActive() && !l.ExpiryDate.Before(from) && !l.ExpiryDate.After(to)
	}), nil
}

func (r *LotRepo) ListExpiredBefore(_ context.Context, date time.Time) ([]*entity.Lot, error) {
	return r.filter(func(l *entity.Lot) bool {
		return l.IsActive() && l.ExpiryDate.Before(date)
	}), nil
}

func (r *LotRepo) ListAvailableByItem(_ context.Context, itemID string) ([]*entity.Lot, error) {
	return r.filter(func(l *entity.Lot) bool {
		return l.ItemID == itemID && l.IsActive() && l.Quantity.IsPositive()
	}), nil
}

// filter devuelve copias ordenadas por caducidad ASC (FEFO), desempate por número de lote.
func (r *LotRepo) filter(keep func(*entity.Lot) bool) []*entity.Lot {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Lot
	for _, l := range r.s.lots {
		if keep(l) {
			cp := *l
			cp.ItemName = r.s.itemName(l.ItemID)
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ExpiryDate.Equal(list[j].ExpiryDate) {
			return list[i].ExpiryDate.Before(list[j].ExpiryDate)
		}
		return list[i].Number < list[j].Number
	})
	return list
}
