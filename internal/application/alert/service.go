package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/application/ports"
	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/domain/inventory"
	"github.com/jhoicas/inventario-lab/internal/domain/repository"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

// Service casos de uso sobre el almacén de alertas: consultas, lectura, limpieza,
// barridos a demanda y difusión de lo creado.
type Service struct {
	alerts    repository.AlertRepository
	scanner   *Scanner
	factory   *Factory
	publisher ports.AlertPublisher
	now       func() time.Time
	log       *logger.Logger
}

// NewService construye el servicio. publisher puede ser nil (sin difusión).
func NewService(
	alerts repository.AlertRepository,
	scanner *Scanner,
	factory *Factory,
	publisher ports.AlertPublisher,
	clock func() time.Time,
	log *logger.Logger,
) *Service {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		alerts:    alerts,
		scanner:   scanner,
		factory:   factory,
		publisher: publisher,
		now:       clock,
		log:       log,
	}
}

func (s *Service) find(ctx context.Context, f repository.AlertFilter) ([]dto.AlertDTO, error) {
	list, err := s.alerts.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToDTOs(list, s.now()), nil
}

// List todas las alertas.
func (s *Service) List(ctx context.Context) ([]dto.AlertDTO, error) {
	return s.find(ctx, repository.AlertFilter{})
}

// ListUnread alertas no leídas, más recientes primero (orden determinista).
func (s *Service) ListUnread(ctx context.Context) ([]dto.AlertDTO, error) {
	unread := false
	return s.find(ctx, repository.AlertFilter{Read: &unread})
}

// Urgent no leídas de prioridad CRITICA o ALTA.
func (s *Service) Urgent(ctx context.Context) ([]dto.AlertDTO, error) {
	unread := false
	return s.find(ctx, repository.AlertFilter{
		Read:       &unread,
		Priorities: []entity.Priority{entity.PriorityCritical, entity.PriorityHigh},
	})
}

// Today alertas creadas desde la medianoche local.
func (s *Service) Today(ctx context.Context) ([]dto.AlertDTO, error) {
	since := inventory.StartOfDay(s.now())
	return s.find(ctx, repository.AlertFilter{Since: &since})
}

// ByType alertas de un tipo (predefinido o personalizado).
func (s *Service) ByType(ctx context.Context, t string) ([]dto.AlertDTO, error) {
	if t == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.find(ctx, repository.AlertFilter{Type: entity.AlertType(t)})
}

// ByPriority alertas de una prioridad válida.
func (s *Service) ByPriority(ctx context.Context, p string) ([]dto.AlertDTO, error) {
	prio := entity.Priority(p)
	if !prio.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return s.find(ctx, repository.AlertFilter{Priorities: []entity.Priority{prio}})
}

// ByItem alertas que referencian al insumo.
func (s *Service) ByItem(ctx context.Context, itemID string) ([]dto.AlertDTO, error) {
	return s.find(ctx, repository.AlertFilter{ItemID: itemID})
}

// ByLot alertas que referencian al lote.
func (s *Service) ByLot(ctx context.Context, lotID string) ([]dto.AlertDTO, error) {
	return s.find(ctx, repository.AlertFilter{LotID: lotID})
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (s *Service) GetByID(ctx context.Context, id string) (*dto.AlertDTO, error) {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	out := ToDTO(a, s.now())
	return &out, nil
}

// MarkAsRead transición única a leída; marcar de nuevo no cambia la fecha de lectura.
func (s *Service) MarkAsRead(ctx context.Context, id string) (*dto.AlertDTO, error) {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if !a.Read {
		if err := s.alerts.MarkRead(ctx, id, s.now()); err != nil {
			return nil, fmt.Errorf("marcar alerta como leída: %w", err)
		}
	}
	return s.GetByID(ctx, id)
}

// Delete elimina una alerta; domain.ErrNotFound si no existe.
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	return s.alerts.Delete(ctx, id)
}

// CountUnread total de no leídas.
func (s *Service) CountUnread(ctx context.Context) (int, error) {
	return s.alerts.CountUnread(ctx)
}

// Stats conteos totales, no leídas por prioridad y por tipo.
func (s *Service) Stats(ctx context.Context) (dto.AlertStatsDTO, error) {
	var out dto.AlertStatsDTO
	var err error
	if out.Total, err = s.alerts.Count(ctx); err != nil {
		return out, err
	}
	if out.Unread, err = s.alerts.CountUnread(ctx); err != nil {
		return out, err
	}
	byPriority, err := s.alerts.CountUnreadByPriority(ctx)
	if err != nil {
		return out, err
	}
	out.UnreadByPriority = priorityCounts(byPriority)
	byType, err := s.alerts.CountByType(ctx)
	if err != nil {
		return out, err
	}
	out.ByType = make(map[string]int, len(byType))
	for t, n := range byType {
		out.ByType[string(t)] = n
	}
	return out, nil
}

// Summary no leídas, urgentes y de hoy.
func (s *Service) Summary(ctx context.Context) (dto.AlertSummaryDTO, error) {
	var out dto.AlertSummaryDTO
	var err error
	if out.Unread, err = s.alerts.CountUnread(ctx); err != nil {
		return out, err
	}
	urgent, err := s.Urgent(ctx)
	if err != nil {
		return out, err
	}
	today, err := s.Today(ctx)
	if err != nil {
		return out, err
	}
	out.Urgent, out.Today = len(urgent), len(today)
	return out, nil
}

// Purge borra las alertas leídas creadas hace más de days días.
func (s *Service) Purge(ctx context.Context, days int) (dto.PurgeResultDTO, error) {
	out := dto.PurgeResultDTO{RetentionDays: days}
	if days <= 0 {
		return out, domain.ErrInvalidInput
	}
	before := s.now().AddDate(0, 0, -days)
	n, err := s.alerts.DeleteReadOlderThan(ctx, before)
	if err != nil {
		return out, fmt.Errorf("limpiar alertas antiguas: %w", err)
	}
	out.Deleted = n
	return out, nil
}

// Scan ejecuta un barrido a demanda y difunde las alertas creadas.
func (s *Service) Scan(ctx context.Context, kind string) (dto.ScanResultDTO, error) {
	if kind == "" {
		kind = KindAll
	}
	created, err := s.scanner.Run(ctx, kind)
	s.publishAll(ctx, created)
	out := dto.ScanResultDTO{
		Scan:    kind,
		Created: len(created),
		Alerts:  ToDTOs(created, s.now()),
	}
	return out, err
}

// CreateCustom crea una alerta manual y la difunde.
func (s *Service) CreateCustom(ctx context.Context, in CustomInput) (*dto.AlertDTO, error) {
	a, err := s.factory.CreateCustom(ctx, in)
	if err != nil {
		return nil, err
	}
	out := ToDTO(a, s.now())
	s.publish(ctx, out)
	return &out, nil
}

// PublishUnread difunde todas las no leídas a todos los suscriptores; devuelve cuántas.
func (s *Service) PublishUnread(ctx context.Context) (int, error) {
	unread, err := s.ListUnread(ctx)
	if err != nil {
		return 0, err
	}
	for _, a := range unread {
		s.publish(ctx, a)
	}
	return len(unread), nil
}

// WeeklyReport conteo de no leídas por prioridad y detalle de las urgentes.
func (s *Service) WeeklyReport(ctx context.Context) (dto.WeeklyReportDTO, error) {
	out := dto.WeeklyReportDTO{GeneratedAt: s.now()}
	var err error
	if out.Unread, err = s.alerts.CountUnread(ctx); err != nil {
		return out, err
	}
	byPriority, err := s.alerts.CountUnreadByPriority(ctx)
	if err != nil {
		return out, err
	}
	out.UnreadByPriority = priorityCounts(byPriority)
	if out.Urgent, err = s.Urgent(ctx); err != nil {
		return out, err
	}
	return out, nil
}

func (s *Service) publishAll(ctx context.Context, created []*entity.Alert) {
	now := s.now()
	for _, a := range created {
		s.publish(ctx, ToDTO(a, now))
	}
}

func (s *Service) publish(ctx context.Context, a dto.AlertDTO) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, a); err != nil {
		s.log.Warn().Err(err).Str("alerta_id", a.ID).Msg("no se pudo difundir la alerta")
	}
}

// priorityCounts incluye todas las prioridades, con cero si no hay alertas.
func priorityCounts(in map[entity.Priority]int) map[string]int {
	out := make(map[string]int, len(entity.Priorities))
	for _, p := range entity.Priorities {
		out[string(p)] = in[p]
	}
	return out
}
