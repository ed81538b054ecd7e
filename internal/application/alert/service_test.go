package alert_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lab/internal/application/alert"
	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
)

func (f *fixture) custom(t *testing.T, title string, p entity.Priority) string {
	t.Helper()
	a, err := f.service.CreateCustom(context.Background(), alert.CustomInput{
		Type: entity.AlertSystem, Priority: p, Title: title, Message: title,
	})
	require.NoError(t, err)
	return a.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkAsRead_IdaYVuelta(t *testing.T) {
	f := newFixture(t)
	id := f.custom(t, "a", entity.PriorityMedium)
	other := f.custom(t, "b", entity.PriorityMedium)

	read, err := f.service.MarkAsRead(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, read.Read)
	require.NotNil(t, read.ReadAt)
	firstReadAt := *read.ReadAt

	f.clock.Advance(time.Hour)
	again, err := f.service.MarkAsRead(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, firstReadAt, *again.ReadAt, "marcar de nuevo no cambia la fecha de lectura")

	never, err := f.service.GetByID(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, never.Read)
	assert.Nil(t, never.ReadAt)
}

func TestMarkAsRead_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.MarkAsRead(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.service.Delete(context.Background(), "nope"), domain.ErrNotFound)
}

func TestListUnread_OrdenDeterministaMasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	first := f.custom(t, "primera", entity.PriorityLow)
	f.clock.Advance(time.Minute)
	second := f.custom(t, "segunda", entity.PriorityLow)
	third := f.custom(t, "tercera", entity.PriorityLow) // misma marca de tiempo que la segunda

	list, err := f.service.ListUnread(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{third, second, first}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestUrgentYResumen(t *testing.T) {
	f := newFixture(t)
	f.custom(t, "c", entity.PriorityCritical)
	f.custom(t, "a", entity.PriorityHigh)
	f.custom(t, "m", entity.PriorityMedium)
	leida := f.custom(t, "c2", entity.PriorityCritical)
	_, err := f.service.MarkAsRead(context.Background(), leida)
	require.NoError(t, err)

	urgent, err := f.service.Urgent(context.Background())
	require.NoError(t, err)
	assert.Len(t, urgent, 2)
	for _, a := range urgent {
		assert.True(t, a.Urgent)
	}

	sum, err := f.service.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Unread)
	assert.Equal(t, 2, sum.Urgent)
	assert.Equal(t, 4, sum.Today)

	stats, err := f.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, map[string]int{"CRITICA": 1, "ALTA": 1, "MEDIA": 1, "BAJA": 0}, stats.UnreadByPriority)
	assert.Equal(t, 4, stats.ByType["SISTEMA"])
}

func TestByPriority_Invalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.ByPriority(context.Background(), "URGENTE")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPresentacion_IconoYColor(t *testing.T) {
	assert.Equal(t, "inventory", alert.Icon(entity.AlertLowStock))
	assert.Equal(t, "trending_down", alert.Icon(entity.AlertImminentStockout))
	assert.Equal(t, "notifications", alert.Icon("OTRO"))
	assert.Equal(t, "#DC2626", alert.Color(entity.PriorityCritical))
	assert.Equal(t, "#3B82F6", alert.Color(entity.PriorityLow))
	assert.Equal(t, "#6B7280", alert.Color("X"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Limpieza
// ──────────────────────────────────────────────────────────────────────────────

func TestPurge_Retencion30Dias(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	// Alertas creadas en el pasado: se retrocede el reloj antes de crearlas.
	f.clock.Advance(-31 * 24 * time.Hour)
	vieja := f.custom(t, "vieja", entity.PriorityLow)
	viejaNoLeida := f.custom(t, "vieja sin leer", entity.PriorityLow)
	f.clock.Advance(2 * 24 * time.Hour)
	reciente := f.custom(t, "reciente", entity.PriorityLow)
	f.clock.Advance(now.Sub(f.clock.Now()))

	for _, id := range []string{vieja, reciente} {
		_, err := f.service.MarkAsRead(context.Background(), id)
		require.NoError(t, err)
	}

	res, err := f.service.Purge(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted)

	_, err = f.service.GetByID(context.Background(), vieja)
	assert.ErrorIs(t, err, domain.ErrNotFound, "leída de hace 31 días se borra")
	_, err = f.service.GetByID(context.Background(), reciente)
	assert.NoError(t, err, "leída de hace 29 días se conserva")
	_, err = f.service.GetByID(context.Background(), viejaNoLeida)
	assert.NoError(t, err, "no leída nunca se borra")
}

func TestPurge_DiasInvalidos(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Purge(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Barridos a demanda y difusión
// ──────────────────────────────────────────────────────────────────────────────

func TestScan_DifundeSoloLoCreado(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "i1", "Etanol", 5, 20, entity.StatusActive)

	res, err := f.service.Scan(context.Background(), alert.KindLowStock)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	require.Len(t, f.pub.sent, 1)
	assert.Equal(t, "STOCK_BAJO", f.pub.sent[0].Type)
	assert.Equal(t, "#EA580C", f.pub.sent[0].Color)

	res, err = f.service.Scan(context.Background(), alert.KindAll)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.NotNil(t, res.Alerts)
	assert.Len(t, f.pub.sent, 1, "los duplicados suprimidos no se difunden")
}

func TestScan_TipoDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Scan(context.Background(), "otro")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPublishUnread_EnviaTodasLasNoLeidas(t *testing.T) {
	f := newFixture(t)
	f.custom(t, "a", entity.PriorityLow)
	f.custom(t, "b", entity.PriorityLow)
	f.pub.sent = nil

	n, err := f.service.PublishUnread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, f.pub.sent, 2)
}

func TestWeeklyReport_ConteosPorPrioridad(t *testing.T) {
	f := newFixture(t)
	f.custom(t, "c", entity.PriorityCritical)
	f.custom(t, "b", entity.PriorityLow)

	rep, err := f.service.WeeklyReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Unread)
	assert.Equal(t, 1, rep.UnreadByPriority["CRITICA"])
	assert.Equal(t, 1, rep.UnreadByPriority["BAJA"])
	assert.Len(t, rep.Urgent, 1)
}
