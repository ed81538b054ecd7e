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

// LotUseCase ciclo de vida de lotes y consultas de caducidad.
type LotUseCase struct {
	lots  repository.LotRepository
	items repository.ItemRepository
	now   func() time.Time
}

// NewLotUseCase construye el caso de uso. clock nil usa time.Now.
func NewLotUseCase(lots repository.LotRepository, items repository.ItemRepository, clock func() time.Time) *LotUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &LotUseCase{lots: lots, items: items, now: clock}
}

// Create valida el insumo dueño y que cantidad actual <= inicial.
// Si Quantity es cero se toma la cantidad inicial.
func (uc *LotUseCase) Create(ctx context.Context, in dto.CreateLotRequest) (*dto.LotDTO, error) {
	if strings.TrimSpace(in.ItemID) == "" {
		return nil, domain.ErrItemRequired
	}
	item, err := uc.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemRequired
	}
	if strings.TrimSpace(in.Number) == "" || !in.InitialQuantity.IsPositive() || in.Quantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	qty := in.Quantity
	if qty.IsZero() {
		qty = in.InitialQuantity
	}
	if qty.GreaterThan(in.InitialQuantity) {
		return nil, domain.ErrLotQuantityExceeded
	}
	expiry, err := parseDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	lot := &entity.Lot{
		ID:              uuid.New().String(),
		ItemID:          item.ID,
		ItemName:        item.Name,
		Number:          strings.TrimSpace(in.Number),
		ExpiryDate:      expiry,
		InitialQuantity: in.InitialQuantity,
		Quantity:        qty,
		Supplier:        in.Supplier,
		Location:        in.Location,
		Status:          entity.LotActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.ManufactureDate != "" {
		mfg, err := parseDate(in.ManufactureDate)
		if err != nil {
			return nil, err
		}
		if mfg.After(expiry) {
			return nil, domain.ErrInvalidInput
		}
		lot.ManufactureDate = &mfg
	}
	if err := uc.lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	out := toLotDTO(lot)
	return &out, nil
}

// Update domain.ErrNotFound si el lote no existe.
func (uc *LotUseCase) Update(ctx context.Context, id string, in dto.UpdateLotRequest) (*dto.LotDTO, error) {
	lot, err := uc.lots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	if in.ExpiryDate != nil {
		expiry, err := parseDate(*in.ExpiryDate)
		if err != nil {
			return nil, err
		}
		lot.ExpiryDate = expiry
	}
	if in.Quantity != nil {
		if in.Quantity.IsNegative() || in.Quantity.GreaterThan(lot.InitialQuantity) {
			return nil, domain.ErrInvalidInput
		}
		lot.Quantity = *in.Quantity
		if lot.Quantity.IsZero() && lot.Status == entity.LotActive {
			lot.Status = entity.LotDepleted
		}
	}
	if in.Supplier != nil {
		lot.Supplier = *in.Supplier
	}
	if in.Location != nil {
		lot.Location = *in.Location
	}
	if in.Status != nil {
		lot.Status = *in.Status
	}
	lot.UpdatedAt = uc.now()
	if err := uc.lots.Update(ctx, lot); err != nil {
		return nil, err
	}
	out := toLotDTO(lot)
	return &out, nil
}

// Delete baja lógica: el lote pasa a retirado.
func (uc *LotUseCase) Delete(ctx context.Context, id string) error {
	lot, err := uc.lots.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if lot == nil {
		return domain.ErrNotFound
	}
	lot.Status = entity.LotRetired
	lot.UpdatedAt = uc.now()
	return uc.lots.Update(ctx, lot)
}

// Expiring lotes activos que vencen en [hoy, hoy+days] con su nivel de caducidad.
func (uc *LotUseCase) Expiring(ctx context.Context, days int) ([]dto.LotExpiryDTO, error) {
	if days < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	today := inventory.CivilDate(now)
	lots, err := uc.lots.ListExpiringBetween(ctx, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotExpiryDTO, 0, len(lots))
	for _, l := range lots {
		d := inventory.DaysUntil(now, l.ExpiryDate)
		out = append(out, dto.LotExpiryDTO{
			LotDTO:       toLotDTO(l),
			DaysToExpiry: d,
			ExpiryLevel:  inventory.ExpiryLevel(d),
		})
	}
	return out, nil
}

// FEFO lotes disponibles del insumo, primero el que vence antes.
func (uc *LotUseCase) FEFO(ctx context.Context, itemID string) ([]dto.LotDTO, error) {
	lots, err := uc.lots.ListAvailableByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, toLotDTO(l))
	}
	return out, nil
}

// available suma de cantidades de los lotes.
func available(lots []*entity.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		total = total.Add(l.Quantity)
	}
	return total
}
