package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WithdrawalRepository puerto del libro de salidas (solo inserción).
// Los rangos son inclusivos en ambos extremos y se comparan por fecha civil.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *entity.Withdrawal) error
	ListByItemBetween(ctx context.Context, itemID string, from, to time.Time) ([]*entity.Withdrawal, error)
	SumByItemBetween(ctx context.Context, itemID string, from, to time.Time) (decimal.Decimal, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Withdrawal, error)
}
