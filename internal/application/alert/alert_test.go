package alert_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lab/internal/application/alert"
	"github.com/jhoicas/inventario-lab/internal/application/consumption"
	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/domain"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeClock reloj controlable para probar la ventana de 24 h.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingPublisher guarda lo publicado.
type recordingPublisher struct {
	mu   sync.Mutex
	sent []dto.AlertDTO
}

func (p *recordingPublisher) Publish(_ context.Context, a dto.AlertDTO) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, a)
	return nil
}

type fixture struct {
	store   *memory.Store
	clock   *fakeClock
	factory *alert.Factory
	scanner *alert.Scanner
	service *alert.Service
	pub     *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)}
	analyzer := consumption.NewAnalyzer(store.Items(), store.Withdrawals(), clock.Now)
	factory := alert.NewFactory(store.Alerts(), store.Items(), store.Lots(), clock.Now)
	scanner := alert.NewScanner(store.Items(), store.Lots(), analyzer, factory, clock.Now, nil)
	pub := &recordingPublisher{}
	service := alert.NewService(store.Alerts(), scanner, factory, pub, clock.Now, nil)
	return &fixture{store: store, clock: clock, factory: factory, scanner: scanner, service: service, pub: pub}
}

func (f *fixture) today() time.Time {
	n := f.clock.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func d(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

func (f *fixture) addItem(t *testing.T, id, name string, qty, minimum int64, status string) *entity.Item {
	t.Helper()
	it := &entity.Item{ID: id, Code: "C-" + id, Name: name, Quantity: d(qty), MinQuantity: d(minimum), Status: status}
	require.NoError(t, f.store.Items().Create(context.Background(), it))
	return it
}

func (f *fixture) addLot(t *testing.T, id, itemID string, expiryOffset int, qty int64, status string) *entity.Lot {
	t.Helper()
	l := &entity.Lot{
		ID: id, ItemID: itemID, Number: "L-" + id,
		ExpiryDate:      f.today().AddDate(0, 0, expiryOffset),
		InitialQuantity: decimal.NewFromInt(qty), Quantity: decimal.NewFromInt(qty),
		Status: status,
	}
	require.NoError(t, f.store.Lots().Create(context.Background(), l))
	return l
}

func (f *fixture) addDailyUsage(t *testing.T, itemID string, perDay int64) {
	t.Helper()
	for i := 0; i < 30; i++ {
		require.NoError(t, f.store.Withdrawals().Create(context.Background(), &entity.Withdrawal{
			ID: fmt.Sprintf("%s-%d", itemID, i), ItemID: itemID,
			Quantity: decimal.NewFromInt(perDay), Date: f.today().AddDate(0, 0, -i),
		}))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios del barrido
// ──────────────────────────────────────────────────────────────────────────────

func TestScanAll_StockBajoGeneraUnaAlertaAlta(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "i1", "Etanol 96%", 5, 20, entity.StatusActive)

	created, err := f.scanner.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, created, 1)
	a := created[0]
	assert.Equal(t, entity.AlertLowStock, a.Type)
	assert.Equal(t, entity.PriorityHigh, a.Priority)
	assert.Equal(t, "Stock Bajo: Etanol 96%", a.Title)
	assert.Contains(t, a.Message, "Cantidad actual: 5.00, Mínimo requerido: 20.00")
	require.NotNil(t, a.ItemID)
	assert.Equal(t, "i1", *a.ItemID)
	assert.False(t, a.Read)
	assert.Nil(t, a.ReadAt)
}

func TestScanAll_InsumoInactivoNoGeneraAlerta(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "i1", "Agar", 1, 20, entity.StatusInactive)

	created, err := f.scanner.ScanAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestScanExpiry_CincoDiasEsCritica(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "i1", "Buffer", 100, 10, entity.StatusActive)
	f.addLot(t, "l1", "i1", 5, 10, entity.LotActive)

	created, err := f.scanner.ScanExpiry(context.Background())
	require.NoError(t, err)
	require.Len(t, created, 1)
	a := created[0]
	assert.Equal(t, entity.AlertExpiry, a.Type)
	assert.Equal(t, entity.PriorityCritical, a.Priority)
	assert.Equal(t, "Lote próximo a vencer: L-l1", a.Title)
	assert.Contains(t, a.Message, "del insumo 'Buffer' vence en 5 días")
	require.NotNil(t, a.LotID)
	assert.Equal(t, "l1", *a.LotID)
}

func TestScanExpiry_PrioridadPorDiasRestantes(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "i1", "Buffer", 100, 10, entity.StatusActive)
	f.addLot(t, "hoy", "i1", 0, 10, entity.LotActive)
	f.addLot(t, "ocho", "i1", 8, 10, entity.LotActive)
	f.addLot(t, "quince", "i1", 15, 10, entity.LotActive)
	f.addLot(t, "dieciseis", "i1", 16, 10, entity.LotActive)
	f.addLot(t, "treinta", "i1", 30, 10, entity.LotActive)
	f.addLot(t, "fuera", "i1", 31, 10, entity.LotActive)
	f.addLot(t, "retirado", "i1", 3, 10, entity.LotRetired)

	created, err := f.scanner.ScanExpiry(context.Background())
	require.NoError(t, err)

	got := map[string]entity.Priority{}
	for _, a := range created {
		got[*a.LotID] = a.Priority
	}
	assert.Equal(t, map[string]entity.Priority{
		"hoy":       entity.PriorityCritical,
		"ocho":      entity.PriorityHigh,
		"quince":    entity.PriorityHigh,
		"dieciseis": entity.PriorityMedium,
		"treinta":   entity.PriorityMedium,
	}, got)
}

func TestScanExpired_VencidoAyerEsCriticaSinImportarCantidad(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "i1", "Reactivo X", 100, 10, entity.StatusActive)
	f.addLot(t, "l1", "i1", -1, 0, entity.LotActive)

	created, err := f.scanner.ScanExpired(context.Background())
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, entity.AlertExpired, created[0].Type)
	assert.Equal(t, entity.PriorityCritical, created[0].Priority)
	assert.Contains(t, created[0].Message, "Se recomienda retirar del inventario.")
}

func TestScanImminentStockout_PrioridadPorDias(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "dos", "Guantes", 20, 5, entity.StatusActive) // 20 / 10 = 2 días
	f.addDailyUsage(t, "dos", 10)
	f.addItem(t, "seis", "Puntas", 60, 5, entity.StatusActive) // 6 días
	f.addDailyUsage(t, "seis", 10)
	f.addItem(t, "lejos", "Tubos", 150, 5, entity.StatusActive) // 15 días, fuera del horizonte
	f.addDailyUsage(t, "lejos", 10)
	f.addItem(t, "quieto", "Pipetas", 10, 5, entity.StatusActive) // sin consumo

	created, err := f.scanner.ScanImminentStockout(context.Background())
	require.NoError(t, err)

	got := map[string]entity.Priority{}
	for _, a := range created {
		got[*a.ItemID] = a.Priority
	}
	assert.Equal(t, map[string]entity.Priority{
		"dos":  entity.PriorityCritical,
		"seis": entity.PriorityHigh,
	}, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Supresión de duplicados
// ──────────────────────────────────────────────────────────────────────────────

func TestScanAll_SegundoBarridoDentroDe24hNoCreaNada(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "i1", "Etanol", 5, 20, entity.StatusActive)
	f.addLot(t, "l1", "i1", 5, 5, entity.LotActive)
	f.addLot(t, "l2", "i1", -3, 5, entity.LotActive)

	first, err := f.scanner.ScanAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 3)

	f.clock.Advance(23 * time.Hour)
	second, err := f.scanner.ScanAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second, "dentro de la ventana de 24 h no se repiten alertas")

	f.clock.Advance(2 * time.Hour)
	third, err := f.scanner.ScanLowStock(context.Background())
	require.NoError(t, err)
	assert.Len(t, third, 1, "pasadas 24 h la condición vuelve a alertar")
}

func TestFactory_DuplicadoNoEsError(t *testing.T) {
	f := newFixture(t)
	it := f.addItem(t, "i1", "Etanol", 5, 20, entity.StatusActive)

	a, err := f.factory.CreateLowStock(context.Background(), it)
	require.NoError(t, err)
	require.NotNil(t, a)

	again, err := f.factory.CreateLowStock(context.Background(), it)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestFactory_DuplicadoEsPorTipoYEntidad(t *testing.T) {
	f := newFixture(t)
	it := f.addItem(t, "i1", "Etanol", 5, 20, entity.StatusActive)
	other := f.addItem(t, "i2", "Metanol", 5, 20, entity.StatusActive)

	_, err := f.factory.CreateLowStock(context.Background(), it)
	require.NoError(t, err)

	a, err := f.factory.CreateImminentStockout(context.Background(), it, 3)
	require.NoError(t, err)
	assert.NotNil(t, a, "otro tipo sobre el mismo insumo no es duplicado")

	b, err := f.factory.CreateLowStock(context.Background(), other)
	require.NoError(t, err)
	assert.NotNil(t, b, "mismo tipo sobre otro insumo no es duplicado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas personalizadas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCustom_ResuelveReferenciasExistentes(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "i1", "Etanol", 50, 20, entity.StatusActive)
	missing := "no-existe"
	itemID := "i1"

	a, err := f.factory.CreateCustom(context.Background(), alert.CustomInput{
		Type: "MANTENIMIENTO", Priority: entity.PriorityLow,
		Title: "Calibrar balanza", Message: "Revisión mensual",
		ItemID: &itemID, LotID: &missing,
	})
	require.NoError(t, err)
	require.NotNil(t, a.ItemID)
	assert.Equal(t, "i1", *a.ItemID)
	assert.Nil(t, a.LotID, "referencia inexistente se omite sin error")
}

func TestCreateCustom_PrioridadInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.factory.CreateCustom(context.Background(), alert.CustomInput{
		Type: "X", Priority: "URGENTE", Title: "t", Message: "m",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateCustom_NoSuprimeDuplicados(t *testing.T) {
	f := newFixture(t)
	in := alert.CustomInput{Type: entity.AlertSystem, Priority: entity.PriorityLow, Title: "Aviso", Message: "m"}
	_, err := f.service.CreateCustom(context.Background(), in)
	require.NoError(t, err)
	_, err = f.service.CreateCustom(context.Background(), in)
	require.NoError(t, err)

	n, err := f.service.CountUnread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, f.pub.sent, 2, "cada alerta manual se difunde")
}
