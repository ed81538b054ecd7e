package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

var _ repository.WithdrawalRepository = (*WithdrawalRepo)(nil)

// WithdrawalRepo libro de salidas sobre PostgreSQL. Solo inserción y lectura.
type WithdrawalRepo struct {
	q Querier
}

// NewWithdrawalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWithdrawalRepository(q Querier) *WithdrawalRepo {
	return &WithdrawalRepo{q: q}
}

const withdrawalSelect = `
	SELECT s.id, s.insumo_id, i.nombre, s.cantidad, s.fecha_salida, s.motivo, s.responsable,
		s.area_destino, s.observaciones, s.numero_documento, s.fecha_creacion
	FROM salidas s JOIN insumos i ON i.id = s.insumo_id`

func (r *WithdrawalRepo) Create(ctx context.Context, w *entity.Withdrawal) error {
	query := `
		INSERT INTO salidas (id, insumo_id, cantidad, fecha_salida, motivo, responsable, area_destino,
			observaciones, numero_documento, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.ItemID, w.Quantity, w.Date, w.Reason, w.Responsible, w.DestinationArea,
		w.Notes, w.DocumentNumber, w.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert salida: %w", err)
	}
	return nil
}

func (r *WithdrawalRepo) ListByItemBetween(ctx context.Context, itemID string, from, to time.Time) ([]*entity.Withdrawal, error) {
	return r.list(ctx, withdrawalSelect+`
		WHERE s.insumo_id = $1 AND s.fecha_salida BETWEEN $2::date AND $3::date
		ORDER BY s.fecha_salida, s.fecha_creacion`, itemID, from, to)
}

func (r *WithdrawalRepo) SumByItemBetween(ctx context.Context, itemID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(cantidad), 0) FROM salidas
		WHERE insumo_id = $1 AND fecha_salida BETWEEN $2::date AND $3::date`,
		itemID, from, to,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum salidas: %w", err)
	}
	return total, nil
}

func (r *WithdrawalRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Withdrawal, error) {
	return r.list(ctx, withdrawalSelect+`
		WHERE s.fecha_salida BETWEEN $1::date AND $2::date
		ORDER BY s.fecha_salida, s.fecha_creacion`, from, to)
}

func (r *WithdrawalRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Withdrawal, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list salidas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Withdrawal
	for rows.Next() {
		var w entity.Withdrawal
		if err := rows.Scan(&w.ID, &w.ItemID, &w.ItemName, &w.Quantity, &w.Date, &w.Reason, &w.Responsible,
			&w.DestinationArea, &w.Notes, &w.DocumentNumber, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan salida: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
