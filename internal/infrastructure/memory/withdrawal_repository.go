package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.WithdrawalRepository = (*WithdrawalRepo)(nil)

// WithdrawalRepo implementación en memoria del libro de salidas.
type WithdrawalRepo struct {
	s *Store
}

func (r *WithdrawalRepo) Create(_ context.Context, w *entity.Withdrawal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *w
	r.s.withdrawals = append(r.s.withdrawals, &cp)
	return nil
}

// ListByItemBetween falla con el error del contexto si ya fue cancelado, como lo haría pgx.
func (r *WithdrawalRepo) ListByItemBetween(ctx context.Context, itemID string, from, to time.Time) ([]*entity.Withdrawal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.filter(func(w *entity.Withdrawal) bool {
		return w.ItemID == itemID && inRange(w.Date, from, to)
	}), nil
}

func (r *WithdrawalRepo) SumByItemBetween(ctx context.Context, itemID string, from, to time.Time) (decimal.Decimal, error) {
	list, err := r.ListByItemBetween(ctx, itemID, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, w := range list {
		total = total.Add(w.Quantity)
	}
	return total, nil
}

func (r *WithdrawalRepo) ListBetween(_ context.Context, from, to time.Time) ([]*entity.Withdrawal, error) {
	return r.filter(func(w *entity.Withdrawal) bool { return inRange(w.Date, from, to) }), nil
}

func (r *WithdrawalRepo) filter(keep func(*entity.Withdrawal) bool) []*entity.Withdrawal {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Withdrawal
	for _, w := range r.s.withdrawals {
		if keep(w) {
			cp := *w
			cp.ItemName = r.s.itemName(w.ItemID)
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
