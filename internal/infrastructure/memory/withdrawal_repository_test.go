package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/memory"
)

func day(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

func TestSumByItemBetween_SumaSoloLaVentana(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Withdrawals()
	for i, w := range []struct {
		item string
		qty  int64
		date time.Time
	}{{"A", 2, day(1)}, {"A", 3, day(5)}, {"A", 7, day(20)}, {"B", 100, day(5)}} {
		require.NoError(t, repo.Create(ctx, &entity.Withdrawal{
			ID: string(rune('a' + i)), ItemID: w.item, Quantity: decimal.NewFromInt(w.qty), Date: w.date,
		}))
	}

	total, err := repo.SumByItemBetween(ctx, "A", day(1), day(10))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(5)), "total=%s", total)
}

func TestSumByItemBetween_PropagaErrorDelContexto(t *testing.T) {
	repo := memory.NewStore().Withdrawals()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.SumByItemBetween(ctx, "A", day(1), day(10))
	assert.ErrorIs(t, err, context.Canceled)
}
