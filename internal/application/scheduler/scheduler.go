package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/jhoicas/inventario-lab/internal/application/alert"
	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/application/ports"
	"github.com/jhoicas/inventario-lab/pkg/config"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

// Nombres de tarea; también son la clave del bloqueo distribuido.
const (
	JobSweep  = "barrido-alertas"
	JobPurge  = "limpieza-alertas"
	JobReport = "reporte-semanal"
)

// Jobs operaciones del servicio de alertas que dispara el planificador.
type Jobs interface {
	Scan(ctx context.Context, kind string) (dto.ScanResultDTO, error)
	Purge(ctx context.Context, days int) (dto.PurgeResultDTO, error)
	WeeklyReport(ctx context.Context) (dto.WeeklyReportDTO, error)
}

// ReportWriter persiste el PDF del reporte semanal.
type ReportWriter interface {
	WriteFile(ctx context.Context, dir string, report dto.WeeklyReportDTO) (string, error)
}

// Deps dependencias inyectadas. Reports y Locker son opcionales.
type Deps struct {
	Jobs    Jobs
	Reports ReportWriter
	Locker  ports.JobLocker
	Clock   func() time.Time
}

// Scheduler componente con ciclo de vida explícito que ejecuta tres temporizadores
// independientes: barrido periódico, limpieza diaria y reporte semanal.
// Un mismo temporizador nunca se solapa consigo mismo; temporizadores distintos sí pueden.
type Scheduler struct {
	deps Deps
	cfg  config.SchedulerConfig
	log  *logger.Logger

	purgeHour, purgeMinute   int
	reportHour, reportMinute int

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New valida la configuración y construye el planificador (sin arrancarlo).
func New(deps Deps, cfg config.SchedulerConfig, log *logger.Logger) (*Scheduler, error) {
	if deps.Jobs == nil {
		return nil, fmt.Errorf("scheduler: Jobs es obligatorio")
	}
	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("scheduler: intervalo de barrido inválido: %s", cfg.SweepInterval)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Scheduler{deps: deps, cfg: cfg, log: log}
	var err error
	if s.purgeHour, s.purgeMinute, err = config.ParseClock(cfg.PurgeAt); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if s.reportHour, s.reportMinute, err = config.ParseClock(cfg.ReportAt); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	return s, nil
}

// Start lanza los temporizadores. Llamar Start dos veces no tiene efecto.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(3)
	go s.sweepLoop(ctx)
	go s.calendarLoop(ctx, JobPurge, func(now time.Time) time.Time {
		return NextDaily(now, s.purgeHour, s.purgeMinute)
	}, s.Purge)
	go s.calendarLoop(ctx, JobReport, func(now time.Time) time.Time {
		return NextWeekly(now, s.cfg.ReportWeekday, s.reportHour, s.reportMinute)
	}, s.Report)

	s.log.Info().
		Dur("intervalo_barrido", s.cfg.SweepInterval).
		Str("limpieza", s.cfg.PurgeAt).
		Str("reporte", s.cfg.ReportWeekday.String()+" "+s.cfg.ReportAt).
		Msg("planificador iniciado")
}

// Stop detiene los temporizadores y espera a que termine cualquier tick en curso.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.log.Info().Msg("planificador detenido")
}

// sweepLoop barre al arrancar y luego cada SweepInterval.
func (s *Scheduler) sweepLoop(ctx context.Context) {
	defer s.wg.Done()
	s.Sweep(ctx)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// calendarLoop espera hasta next(now) y ejecuta run; se recalcula tras cada ejecución.
func (s *Scheduler) calendarLoop(ctx context.Context, job string, next func(time.Time) time.Time, run func(context.Context)) {
	defer s.wg.Done()
	for {
		now := s.deps.Clock()
		at := next(now)
		s.log.Debug().Str("job", job).Time("proxima", at).Msg("tarea programada")
		timer := time.NewTimer(at.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			run(ctx)
		}
	}
}

// Sweep ejecuta todos los escaneos; las alertas creadas se difunden desde el servicio.
func (s *Scheduler) Sweep(ctx context.Context) {
	s.runJob(ctx, JobSweep, s.cfg.SweepInterval, func(ctx context.Context) error {
		res, err := s.deps.Jobs.Scan(ctx, alert.KindAll)
		if res.Created > 0 {
			s.log.Info().Str("job", JobSweep).Int("creadas", res.Created).Msg("alertas generadas")
		}
		return err
	})
}

// Purge borra las alertas leídas más antiguas que la retención configurada.
func (s *Scheduler) Purge(ctx context.Context) {
	s.runJob(ctx, JobPurge, time.Hour, func(ctx context.Context) error {
		res, err := s.deps.Jobs.Purge(ctx, s.cfg.RetentionDays)
		if err != nil {
			return err
		}
		s.log.Info().Str("job", JobPurge).Int64("eliminadas", res.Deleted).
			Int("dias", res.RetentionDays).Msg("limpieza de alertas completada")
		return nil
	})
}

// Report registra los conteos de no leídas y, si hay ReportDir, escribe el PDF.
func (s *Scheduler) Report(ctx context.Context) {
	s.runJob(ctx, JobReport, time.Hour, func(ctx context.Context) error {
		rep, err := s.deps.Jobs.WeeklyReport(ctx)
		if err != nil {
			return err
		}
		ev := s.log.Info().Str("job", JobReport).Int("no_leidas", rep.Unread)
		for p, n := range rep.UnreadByPriority {
			ev = ev.Int(p, n)
		}
		ev.Msg("reporte semanal de alertas")

		if s.cfg.ReportDir == "" || s.deps.Reports == nil {
			return nil
		}
		path, err := s.deps.Reports.WriteFile(ctx, s.cfg.ReportDir, rep)
		if err != nil {
			return err
		}
		s.log.Info().Str("job", JobReport).Str("archivo", path).Msg("reporte PDF generado")
		return nil
	})
}

// runJob envuelve cada tick: bloqueo distribuido opcional, recover y log.
// Un pánico o error se registra y no detiene el temporizador.
func (s *Scheduler) runJob(ctx context.Context, job string, lockTTL time.Duration, fn func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("job", job).Interface("panic", r).Bytes("stack", debug.Stack()).Msg("pánico en tarea programada")
		}
	}()

	if s.deps.Locker != nil {
		release, ok, err := s.deps.Locker.TryLock(ctx, job, lockTTL)
		switch {
		case err != nil:
			// Redis es una optimización: sin bloqueo la tarea corre igual.
			s.log.Warn().Err(err).Str("job", job).Msg("bloqueo distribuido no disponible; se ejecuta sin bloqueo")
		case !ok:
			s.log.Debug().Str("job", job).Msg("otra réplica tiene el bloqueo; tick omitido")
			return
		default:
			defer release()
		}
	}

	start := s.deps.Clock()
	if err := fn(ctx); err != nil {
		s.log.Error().Err(err).Str("job", job).Msg("tarea programada falló")
		return
	}
	s.log.Debug().Str("job", job).Dur("duracion", s.deps.Clock().Sub(start)).Msg("tarea completada")
}
