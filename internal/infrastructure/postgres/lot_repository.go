package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del puerto LotRepository sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotSelect = `
	SELECT l.id, l.insumo_id, i.nombre, l.numero_lote, l.fecha_fabricacion, l.fecha_caducidad,
		l.cantidad_inicial, l.cantidad_actual, l.proveedor, l.ubicacion, l.estado, l.fecha_creacion, l.fecha_actualizacion
	FROM lotes l JOIN insumos i ON i.id = l.insumo_id`

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(&l.ID, &l.ItemID, &l.ItemName, &l.Number, &l.ManufactureDate, &l.ExpiryDate,
		&l.InitialQuantity, &l.Quantity, &l.Supplier, &l.Location, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	query := `
		INSERT INTO lotes (id, insumo_id, numero_lote, fecha_fabricacion, fecha_caducidad, cantidad_inicial,
			cantidad_actual, proveedor, ubicacion, estado, fecha_creacion, fecha_actualizacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.ItemID, l.Number, l.ManufactureDate, l.ExpiryDate, l.InitialQuantity,
		l.Quantity, l.Supplier, l.Location, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrItemRequired
		}
		return fmt.Errorf("insert lote: %w", err)
	}
	return nil
}

func (r *LotRepo) Update(ctx context.Context, l *entity.Lot) error {
	query := `
		UPDATE lotes SET fecha_caducidad = $2, cantidad_actual = $3, proveedor = $4, ubicacion = $5,
			estado = $6, fecha_actualizacion = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, l.ID, l.ExpiryDate, l.Quantity, l.Supplier, l.Location, l.Status, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update lote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, lotSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return l, nil
}

func (r *LotRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Lot, error) {
	return r.list(ctx, lotSelect+`
		WHERE l.estado = 'activo' AND l.fecha_caducidad BETWEEN $1::date AND $2::date
		ORDER BY l.fecha_caducidad, l.numero_lote`, from, to)
}

func (r *LotRepo) ListExpiredBefore(ctx context.Context, date time.Time) ([]*entity.Lot, error) {
	return r.list(ctx, lotSelect+`
		WHERE l.estado = 'activo' AND l.fecha_caducidad < $1::date
		ORDER BY l.fecha_caducidad, l.numero_lote`, date)
}

func (r *LotRepo) ListAvailableByItem(ctx context.Context, itemID string) ([]*entity.Lot, error) {
	return r.list(ctx, lotSelect+`
		WHERE l.insumo_id = $1 AND l.estado = 'activo' AND l.cantidad_actual > 0
		ORDER BY l.fecha_caducidad, l.numero_lote
		FOR UPDATE OF l`, itemID)
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
