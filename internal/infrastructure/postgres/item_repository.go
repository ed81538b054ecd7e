package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, codigo, nombre, descripcion, unidad_medida, cantidad_actual, cantidad_minima,
	precio_unitario, consumo_promedio_diario, dias_restantes, nivel_alerta, estado, fecha_creacion, fecha_actualizacion`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.Code, &it.Name, &it.Description, &it.Unit, &it.Quantity, &it.MinQuantity,
		&it.UnitPrice, &it.AvgDailyUsage, &it.DaysRemaining, &it.AlertLevel, &it.Status, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO insumos (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Code, it.Name, it.Description, it.Unit, it.Quantity, it.MinQuantity,
		it.UnitPrice, it.AvgDailyUsage, it.DaysRemaining, it.AlertLevel, it.Status, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert insumo: %w", err)
	}
	return nil
}

// Update reescribe los campos mutables y los derivados (nivel, días restantes).
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE insumos SET nombre = $2, descripcion = $3, unidad_medida = $4, cantidad_actual = $5,
			cantidad_minima = $6, precio_unitario = $7, consumo_promedio_diario = $8, dias_restantes = $9,
			nivel_alerta = $10, estado = $11, fecha_actualizacion = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		it.ID, it.Name, it.Description, it.Unit, it.Quantity, it.MinQuantity, it.UnitPrice,
		it.AvgDailyUsage, it.DaysRemaining, it.AlertLevel, it.Status, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update insumo: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM insumos WHERE id = $1`, id)
}

func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM insumos WHERE id = $1 FOR UPDATE`, id)
}

func (r *ItemRepo) get(ctx context.Context, query, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get insumo: %w", err)
	}
	return it, nil
}

func (r *ItemRepo) List(ctx context.Context) ([]*entity.Item, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM insumos ORDER BY nombre`)
}

func (r *ItemRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Item, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM insumos WHERE estado = $1 ORDER BY nombre`, status)
}

func (r *ItemRepo) ListBelowMinimum(ctx context.Context) ([]*entity.Item, error) {
	return r.list(ctx, `
		SELECT `+itemColumns+` FROM insumos
		WHERE estado = 'activo' AND cantidad_actual IS NOT NULL AND cantidad_minima IS NOT NULL
			AND cantidad_actual < cantidad_minima
		ORDER BY nombre`)
}

func (r *ItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list insumos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insumo: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
