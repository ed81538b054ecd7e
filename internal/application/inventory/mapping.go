package inventory

import (
	"strings"
	"time"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/inventory"
)

// parseDate interpreta YYYY-MM-DD como fecha civil.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return inventory.CivilDate(t), nil
}

func toItemDTO(it *entity.Item) *dto.ItemDTO {
	return &dto.ItemDTO{
		ID:            it.ID,
		Code:          it.Code,
		Name:          it.Name,
		Description:   it.Description,
		Unit:          it.Unit,
		Quantity:      it.Quantity,
		MinQuantity:   it.MinQuantity,
		UnitPrice:     it.UnitPrice,
		AvgDailyUsage: it.AvgDailyUsage,
		DaysRemaining: it.DaysRemaining,
		AlertLevel:    it.AlertLevel,
		Status:        it.Status,
	}
}

func toLotDTO(l *entity.Lot) dto.LotDTO {
	out := dto.LotDTO{
		ID:              l.ID,
		ItemID:          l.ItemID,
		ItemName:        l.ItemName,
		Number:          l.Number,
		ExpiryDate:      l.ExpiryDate.Format(time.DateOnly),
		InitialQuantity: l.InitialQuantity,
		Quantity:        l.Quantity,
		Supplier:        l.Supplier,
		Location:        l.Location,
		Status:          l.Status,
	}
	if l.ManufactureDate != nil {
		out.ManufactureDate = l.ManufactureDate.Format(time.DateOnly)
	}
	return out
}
