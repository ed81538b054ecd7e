package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/inventory"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

// RegisterWithdrawalUseCase registra salidas de forma transaccional:
// bloquea el insumo (SELECT FOR UPDATE), descuenta lotes en orden FEFO,
// agrega la salida al libro y actualiza cantidad y nivel de alerta del insumo.
type RegisterWithdrawalUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewRegisterWithdrawalUseCase construye el caso de uso. clock nil usa time.Now.
func NewRegisterWithdrawalUseCase(txRunner TxRunner, clock func() time.Time) *RegisterWithdrawalUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &RegisterWithdrawalUseCase{txRunner: txRunner, now: clock}
}

// Register valida y aplica la salida. Errores: ErrInvalidInput, ErrNotFound, ErrInsufficientStock.
func (uc *RegisterWithdrawalUseCase) Register(ctx context.Context, in dto.RegisterWithdrawalRequest) (*dto.WithdrawalDTO, error) {
	if strings.TrimSpace(in.ItemID) == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	date := inventory.CivilDate(now)
	if in.Date != "" {
		d, err := parseDate(in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}

	w := &entity.Withdrawal{
		ID:              uuid.New().String(),
		ItemID:          in.ItemID,
		Quantity:        in.Quantity,
		Date:            date,
		Reason:          in.Reason,
		Responsible:     in.Responsible,
		DestinationArea: in.DestinationArea,
		Notes:           in.Notes,
		DocumentNumber:  in.DocumentNumber,
		CreatedAt:       now,
	}

	// Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		lots repository.LotRepository,
		withdrawals repository.WithdrawalRepository,
	) error {
		item, err := items.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil || !item.IsActive() {
			return domain.ErrNotFound
		}
		current := item.CurrentQuantity()
		if current.LessThan(in.Quantity) {
			return domain.ErrInsufficientStock
		}
		if err := consumeFEFO(ctx, lots, item.ID, in.Quantity, now); err != nil {
			return err
		}
		if err := withdrawals.Create(ctx, w); err != nil {
			return err
		}
		remaining := current.Sub(in.Quantity)
		item.Quantity = &remaining
		item.UpdatedAt = now
		inventory.RefreshItem(item)
		w.ItemName = item.Name
		return items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	out := toWithdrawalDTO(w)
	return &out, nil
}

// consumeFEFO descuenta qty de los lotes disponibles, primero el que vence antes.
// Si los lotes no cubren la cantidad se descuenta lo que haya: el stock del insumo manda
// (puede haber existencias sin lote registrado).
func consumeFEFO(ctx context.Context, lots repository.LotRepository, itemID string, qty decimal.Decimal, now time.Time) error {
	list, err := lots.ListAvailableByItem(ctx, itemID)
	if err != nil {
		return err
	}
	if available(list).IsZero() {
		return nil
	}
	pending := qty
	for _, l := range list {
		if !pending.IsPositive() {
			break
		}
		take := decimal.Min(pending, l.Quantity)
		l.Quantity = l.Quantity.Sub(take)
		pending = pending.Sub(take)
		if l.Quantity.IsZero() {
			l.Status = entity.LotDepleted
		}
		l.UpdatedAt = now
		if err := lots.Update(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func toWithdrawalDTO(w *entity.Withdrawal) dto.WithdrawalDTO {
	return dto.WithdrawalDTO{
		ID:              w.ID,
		ItemID:          w.ItemID,
		ItemName:        w.ItemName,
		Date:            w.Date.Format(time.DateOnly),
		Quantity:        w.Quantity,
		Reason:          w.Reason,
		Responsible:     w.Responsible,
		DestinationArea: w.DestinationArea,
	}
}
