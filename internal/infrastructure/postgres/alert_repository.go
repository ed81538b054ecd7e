package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo almacén de alertas sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertSelect = `
	SELECT a.id, a.tipo, a.prioridad, a.titulo, a.mensaje, a.insumo_id, a.lote_id, a.leida,
		a.fecha_creacion, a.fecha_lectura, a.destinatario, a.datos_adicionales,
		COALESCE(i.nombre, ''), COALESCE(i.codigo, ''), COALESCE(l.numero_lote, '')
	FROM alertas a
	LEFT JOIN insumos i ON i.id = a.insumo_id
	LEFT JOIN lotes l ON l.id = a.lote_id`

const alertOrder = ` ORDER BY a.fecha_creacion DESC, a.secuencia DESC`

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	err := row.Scan(&a.ID, &a.Type, &a.Priority, &a.Title, &a.Message, &a.ItemID, &a.LotID, &a.Read,
		&a.CreatedAt, &a.ReadAt, &a.Recipient, &a.ExtraData, &a.ItemName, &a.ItemCode, &a.LotNumber)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	return insertAlert(ctx, r.q, a)
}

func insertAlert(ctx context.Context, q Querier, a *entity.Alert) error {
	query := `
		INSERT INTO alertas (id, tipo, prioridad, titulo, mensaje, insumo_id, lote_id, leida,
			fecha_creacion, fecha_lectura, destinatario, datos_adicionales)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := q.Exec(ctx, query,
		a.ID, a.Type, a.Priority, a.Title, a.Message, a.ItemID, a.LotID, a.Read,
		a.CreatedAt, a.ReadAt, a.Recipient, a.ExtraData,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert alerta: %w", err)
	}
	return nil
}

// CreateIfAbsent serializa por clave con pg_advisory_xact_lock: dos barridos concurrentes
// sobre el mismo (tipo, entidad) no pueden insertar ambos.
func (r *AlertRepo) CreateIfAbsent(ctx context.Context, a *entity.Alert, key repository.DedupKey, since time.Time) (bool, error) {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key.String()); err != nil {
		return false, fmt.Errorf("advisory lock: %w", err)
	}
	exists, err := existsSince(ctx, tx, key, since)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := insertAlert(ctx, tx, a); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}

func (r *AlertRepo) ExistsSince(ctx context.Context, key repository.DedupKey, since time.Time) (bool, error) {
	return existsSince(ctx, r.q, key, since)
}

func existsSince(ctx context.Context, q Querier, key repository.DedupKey, since time.Time) (bool, error) {
	column, id := "insumo_id", key.ItemID
	if key.LotID != "" {
		column, id = "lote_id", key.LotID
	}
	query := `SELECT EXISTS (SELECT 1 FROM alertas WHERE tipo = $1 AND ` + column + ` = $2 AND fecha_creacion > $3)`
	var exists bool
	if err := q.QueryRow(ctx, query, key.Type, id, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists alerta: %w", err)
	}
	return exists, nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, alertSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alerta: %w", err)
	}
	return a, nil
}

// Find arma el WHERE según los campos presentes del filtro.
func (r *AlertRepo) Find(ctx context.Context, f repository.AlertFilter) ([]*entity.Alert, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Read != nil {
		add("a.leida = $%d", *f.Read)
	}
	if f.Type != "" {
		add("a.tipo = $%d", f.Type)
	}
	if len(f.Priorities) > 0 {
		ps := make([]string, len(f.Priorities))
		for i, p := range f.Priorities {
			ps[i] = string(p)
		}
		add("a.prioridad = ANY($%d)", ps)
	}
	if f.ItemID != "" {
		add("a.insumo_id = $%d", f.ItemID)
	}
	if f.LotID != "" {
		add("a.lote_id = $%d", f.LotID)
	}
	if f.Since != nil {
		add("a.fecha_creacion >= $%d", *f.Since)
	}
	if f.Until != nil {
		add("a.fecha_creacion < $%d", *f.Until)
	}
	query := alertSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += alertOrder

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alertas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alerta: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// MarkRead conserva la primera fecha de lectura.
func (r *AlertRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE alertas SET fecha_lectura = CASE WHEN leida THEN fecha_lectura ELSE $2 END, leida = true
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("marcar alerta leida: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM alertas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete alerta: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepo) CountUnread(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM alertas WHERE leida = false`)
}

func (r *AlertRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM alertas`)
}

func (r *AlertRepo) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count alertas: %w", err)
	}
	return n, nil
}

func (r *AlertRepo) CountUnreadByPriority(ctx context.Context) (map[entity.Priority]int, error) {
	rows, err := r.q.Query(ctx, `SELECT prioridad, COUNT(*) FROM alertas WHERE leida = false GROUP BY prioridad`)
	if err != nil {
		return nil, fmt.Errorf("count alertas por prioridad: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.Priority]int)
	for rows.Next() {
		var (
			p entity.Priority
			n int
		)
		if err := rows.Scan(&p, &n); err != nil {
			return nil, fmt.Errorf("scan conteo: %w", err)
		}
		out[p] = n
	}
	return out, rows.Err()
}

func (r *AlertRepo) CountByType(ctx context.Context) (map[entity.AlertType]int, error) {
	rows, err := r.q.Query(ctx, `SELECT tipo, COUNT(*) FROM alertas GROUP BY tipo`)
	if err != nil {
		return nil, fmt.Errorf("count alertas por tipo: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.AlertType]int)
	for rows.Next() {
		var (
			t entity.AlertType
			n int
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan conteo: %w", err)
		}
		out[t] = n
	}
	return out, rows.Err()
}

func (r *AlertRepo) DeleteReadOlderThan(ctx context.Context, before time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM alertas WHERE leida = true AND fecha_creacion < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge alertas: %w", err)
	}
	return cmd.RowsAffected(), nil
}
