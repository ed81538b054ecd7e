package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
)

func TestBuildMessage_JSONPersistente(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	msg, err := buildMessage(dto.AlertDTO{ID: "a1", Type: "CADUCIDAD", Priority: "ALTA"}, now)

	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "CADUCIDAD", msg.Type)
	assert.Equal(t, now, msg.Timestamp)
	assert.NotEmpty(t, msg.MessageId)

	var got dto.AlertDTO
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "ALTA", got.Priority)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconexión
// ──────────────────────────────────────────────────────────────────────────────

type fakeChannel struct {
	published []amqp.Publishing
	err       error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error { return nil }

type fakeBroker struct {
	dials    int
	fail     error
	channels []*fakeChannel
	closers  []chan *amqp.Error
}

func (b *fakeBroker) dial(string, string) (*session, error) {
	b.dials++
	if b.fail != nil {
		return nil, b.fail
	}
	ch := &fakeChannel{}
	closed := make(chan *amqp.Error, 1)
	b.channels = append(b.channels, ch)
	b.closers = append(b.closers, closed)
	return &session{ch: ch, closed: closed, closeConn: func() error { return nil }}, nil
}

func newTestPublisher(t *testing.T, b *fakeBroker, now *time.Time) *Publisher {
	t.Helper()
	p, err := newPublisher("amqp://test", "inventario.alertas", nil, b.dial, func() time.Time { return *now })
	require.NoError(t, err)
	return p
}

func TestPublish_ReconectaTrasCierreDelBroker(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	b := &fakeBroker{}
	p := newTestPublisher(t, b, &now)
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, dto.AlertDTO{ID: "a1", Type: "STOCK_BAJO"}))
	b.closers[0] <- &amqp.Error{Code: amqp.ConnectionForced, Reason: "reinicio"}

	require.NoError(t, p.Publish(ctx, dto.AlertDTO{ID: "a2", Type: "STOCK_BAJO"}))
	assert.Equal(t, 2, b.dials)
	assert.Len(t, b.channels[0].published, 1)
	assert.Len(t, b.channels[1].published, 1, "la segunda alerta sale por la conexión nueva")
}

func TestPublish_BrokerCaidoEsperaAntesDeReintentar(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	b := &fakeBroker{}
	p := newTestPublisher(t, b, &now)
	ctx := context.Background()

	close(b.closers[0])
	b.fail = errors.New("connection refused")

	err := p.Publish(ctx, dto.AlertDTO{ID: "a1"})
	assert.ErrorIs(t, err, ErrBrokerUnavailable)
	assert.Equal(t, 2, b.dials)

	err = p.Publish(ctx, dto.AlertDTO{ID: "a2"})
	assert.ErrorIs(t, err, ErrBrokerUnavailable)
	assert.Equal(t, 2, b.dials, "dentro de la espera no se vuelve a marcar")

	now = now.Add(redialBackoff)
	b.fail = nil
	require.NoError(t, p.Publish(ctx, dto.AlertDTO{ID: "a3"}))
	assert.Equal(t, 3, b.dials)
}

func TestPublish_CanalCerradoDescartaLaSesion(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	b := &fakeBroker{}
	p := newTestPublisher(t, b, &now)
	ctx := context.Background()

	b.channels[0].err = amqp.ErrClosed
	assert.ErrorIs(t, p.Publish(ctx, dto.AlertDTO{ID: "a1"}), amqp.ErrClosed)

	require.NoError(t, p.Publish(ctx, dto.AlertDTO{ID: "a2"}))
	assert.Equal(t, 2, b.dials)
}
