package inventory

import (
	"context"

	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad al registrar salidas (insumo, lotes y libro de salidas).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		lots repository.LotRepository,
		withdrawals repository.WithdrawalRepository,
	) error) error
}
