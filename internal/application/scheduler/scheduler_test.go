package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/application/scheduler"
	"github.com/jhoicas/inventario-lab/pkg/config"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeJobs struct {
	scans     atomic.Int32
	purges    atomic.Int32
	reports   atomic.Int32
	purgeDays atomic.Int32
	panicScan bool
	scanErr   error
}

func (f *fakeJobs) Scan(context.Context, string) (dto.ScanResultDTO, error) {
	f.scans.Add(1)
	if f.panicScan {
		panic("repositorio roto")
	}
	return dto.ScanResultDTO{Scan: "todos", Created: 1}, f.scanErr
}

func (f *fakeJobs) Purge(_ context.Context, days int) (dto.PurgeResultDTO, error) {
	f.purges.Add(1)
	f.purgeDays.Store(int32(days))
	return dto.PurgeResultDTO{RetentionDays: days, Deleted: 2}, nil
}

func (f *fakeJobs) WeeklyReport(context.Context) (dto.WeeklyReportDTO, error) {
	f.reports.Add(1)
	return dto.WeeklyReportDTO{Unread: 4, UnreadByPriority: map[string]int{"CRITICA": 4}}, nil
}

type fakeWriter struct {
	mu   sync.Mutex
	dirs []string
}

func (w *fakeWriter) WriteFile(_ context.Context, dir string, _ dto.WeeklyReportDTO) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirs = append(w.dirs, dir)
	return dir + "/reporte.pdf", nil
}

type fakeLocker struct {
	ok       bool
	err      error
	released atomic.Int32
}

func (l *fakeLocker) TryLock(context.Context, string, time.Duration) (func(), bool, error) {
	if l.err != nil || !l.ok {
		return nil, false, l.err
	}
	return func() { l.released.Add(1) }, true, nil
}

func baseConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:       true,
		SweepInterval: 10 * time.Millisecond,
		PurgeAt:       "02:00",
		RetentionDays: 30,
		ReportWeekday: time.Monday,
		ReportAt:      "08:00",
	}
}

func newScheduler(t *testing.T, deps scheduler.Deps, cfg config.SchedulerConfig) *scheduler.Scheduler {
	t.Helper()
	s, err := scheduler.New(deps, cfg, logger.Nop())
	require.NoError(t, err)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Calendario
// ──────────────────────────────────────────────────────────────────────────────

func TestNextDaily(t *testing.T) {
	loc := time.UTC
	before := time.Date(2026, 6, 10, 1, 30, 0, 0, loc)
	exact := time.Date(2026, 6, 10, 2, 0, 0, 0, loc)
	after := time.Date(2026, 6, 10, 9, 0, 0, 0, loc)

	assert.Equal(t, time.Date(2026, 6, 10, 2, 0, 0, 0, loc), scheduler.NextDaily(before, 2, 0))
	assert.Equal(t, time.Date(2026, 6, 11, 2, 0, 0, 0, loc), scheduler.NextDaily(exact, 2, 0))
	assert.Equal(t, time.Date(2026, 6, 11, 2, 0, 0, 0, loc), scheduler.NextDaily(after, 2, 0))
}

func TestNextDaily_FinDeMes(t *testing.T) {
	now := time.Date(2026, 6, 30, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 7, 1, 2, 0, 0, 0, time.UTC), scheduler.NextDaily(now, 2, 0))
}

func TestNextWeekly(t *testing.T) {
	// 2026-06-10 es miércoles
	wed := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	mondayMorning := time.Date(2026, 6, 15, 7, 0, 0, 0, time.UTC)
	mondayLate := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC), scheduler.NextWeekly(wed, time.Monday, 8, 0))
	assert.Equal(t, time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC), scheduler.NextWeekly(mondayMorning, time.Monday, 8, 0))
	assert.Equal(t, time.Date(2026, 6, 22, 8, 0, 0, 0, time.UTC), scheduler.NextWeekly(mondayLate, time.Monday, 8, 0))
	assert.Equal(t, time.Date(2026, 6, 10, 18, 30, 0, 0, time.UTC), scheduler.NextWeekly(wed, time.Wednesday, 18, 30))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestNew_ConfiguracionInvalida(t *testing.T) {
	cfg := baseConfig()
	cfg.PurgeAt = "2am"

	_, err := scheduler.New(scheduler.Deps{Jobs: &fakeJobs{}}, cfg, nil)
	assert.Error(t, err)

	_, err = scheduler.New(scheduler.Deps{}, baseConfig(), nil)
	assert.Error(t, err)
}

func TestStartStop_BarridoPeriodico(t *testing.T) {
	jobs := &fakeJobs{}
	s := newScheduler(t, scheduler.Deps{Jobs: jobs}, baseConfig())

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return jobs.scans.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	n := jobs.scans.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, n, jobs.scans.Load(), "no debe haber barridos tras Stop")
	s.Stop()
}

func TestSweep_PanicoNoPropaga(t *testing.T) {
	jobs := &fakeJobs{panicScan: true}
	s := newScheduler(t, scheduler.Deps{Jobs: jobs}, baseConfig())

	assert.NotPanics(t, func() { s.Sweep(context.Background()) })
	assert.Equal(t, int32(1), jobs.scans.Load())
}

func TestSweep_ErrorSeRegistraYContinua(t *testing.T) {
	jobs := &fakeJobs{scanErr: errors.New("db caída")}
	s := newScheduler(t, scheduler.Deps{Jobs: jobs}, baseConfig())

	s.Sweep(context.Background())
	s.Sweep(context.Background())

	assert.Equal(t, int32(2), jobs.scans.Load())
}

func TestPurge_UsaRetencionConfigurada(t *testing.T) {
	jobs := &fakeJobs{}
	cfg := baseConfig()
	cfg.RetentionDays = 45
	s := newScheduler(t, scheduler.Deps{Jobs: jobs}, cfg)

	s.Purge(context.Background())

	assert.Equal(t, int32(45), jobs.purgeDays.Load())
}

func TestReport_EscribePDFSoloConDirectorio(t *testing.T) {
	jobs := &fakeJobs{}
	w := &fakeWriter{}

	sinDir := newScheduler(t, scheduler.Deps{Jobs: jobs, Reports: w}, baseConfig())
	sinDir.Report(context.Background())
	assert.Empty(t, w.dirs)

	cfg := baseConfig()
	cfg.ReportDir = "/tmp/reportes"
	conDir := newScheduler(t, scheduler.Deps{Jobs: jobs, Reports: w}, cfg)
	conDir.Report(context.Background())

	assert.Equal(t, []string{"/tmp/reportes"}, w.dirs)
	assert.Equal(t, int32(2), jobs.reports.Load())
}

// ──────────────────────────────────────────────────────────────────────────────
// Bloqueo distribuido
// ──────────────────────────────────────────────────────────────────────────────

func TestLocker_SinBloqueoSeOmiteElTick(t *testing.T) {
	jobs := &fakeJobs{}
	s := newScheduler(t, scheduler.Deps{Jobs: jobs, Locker: &fakeLocker{ok: false}}, baseConfig())

	s.Sweep(context.Background())

	assert.Equal(t, int32(0), jobs.scans.Load())
}

func TestLocker_ConBloqueoSeLibera(t *testing.T) {
	jobs := &fakeJobs{}
	l := &fakeLocker{ok: true}
	s := newScheduler(t, scheduler.Deps{Jobs: jobs, Locker: l}, baseConfig())

	s.Purge(context.Background())

	assert.Equal(t, int32(1), jobs.purges.Load())
	assert.Equal(t, int32(1), l.released.Load())
}

func TestLocker_ErrorDeRedisEjecutaIgual(t *testing.T) {
	jobs := &fakeJobs{}
	s := newScheduler(t, scheduler.Deps{Jobs: jobs, Locker: &fakeLocker{err: errors.New("redis caído")}}, baseConfig())

	s.Sweep(context.Background())

	assert.Equal(t, int32(1), jobs.scans.Load())
}
