package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/application/ports"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

var _ ports.AlertPublisher = (*Publisher)(nil)

// ErrBrokerUnavailable la conexión se perdió y todavía no se pudo restablecer.
var ErrBrokerUnavailable = errors.New("AMQP: broker no disponible")

const (
	dialTimeout   = 5 * time.Second
	redialBackoff = 5 * time.Second
)

// channel lo que el publicador usa de *amqp.Channel.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// session conexión + canal con el exchange ya declarado. closed se dispara
// (valor o cierre) cuando el broker corta la conexión.
type session struct {
	ch        channel
	closed    <-chan *amqp.Error
	closeConn func() error
}

func (s *session) close() {
	_ = s.ch.Close()
	_ = s.closeConn()
}

type dialFunc func(url, exchange string) (*session, error)

// Publisher difunde alertas nuevas por un exchange fanout de RabbitMQ.
// Cada servicio interesado enlaza su propia cola al exchange. Si el broker
// corta la conexión se vuelve a marcar en la siguiente publicación, como mucho
// una vez cada redialBackoff; mientras tanto Publish falla rápido.
type Publisher struct {
	mu       sync.Mutex // amqp.Channel no admite publicaciones concurrentes
	url      string
	exchange string
	dial     dialFunc
	now      func() time.Time
	sess     *session
	nextDial time.Time
	log      *logger.Logger
}

// NewPublisher conecta al broker y declara el exchange (durable, fanout).
func NewPublisher(url, exchange string, log *logger.Logger) (*Publisher, error) {
	return newPublisher(url, exchange, log, dialBroker, time.Now)
}

func newPublisher(url, exchange string, log *logger.Logger, dial dialFunc, now func() time.Time) (*Publisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	sess, err := dial(url, exchange)
	if err != nil {
		return nil, err
	}
	log.Info().Str("exchange", exchange).Msg("publicador AMQP listo")
	return &Publisher{url: url, exchange: exchange, dial: dial, now: now, sess: sess, log: log}, nil
}

func dialBroker(url, exchange string) (*session, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("AMQP: conectar: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("AMQP: abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("AMQP: declarar exchange %s: %w", exchange, err)
	}
	return &session{
		ch:        ch,
		closed:    conn.NotifyClose(make(chan *amqp.Error, 1)),
		closeConn: conn.Close,
	}, nil
}

// Publish envía la alerta como JSON. La clave de enrutamiento es el tipo de alerta
// (el exchange fanout la ignora, pero queda en el mensaje para consumidores que la usen).
func (p *Publisher) Publish(ctx context.Context, alert dto.AlertDTO) error {
	msg, err := buildMessage(alert, p.now())
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	sess, err := p.sessionLocked()
	if err != nil {
		return err
	}
	if err := sess.ch.PublishWithContext(ctx, p.exchange, alert.Type, false, false, msg); err != nil {
		if errors.Is(err, amqp.ErrClosed) {
			p.dropLocked()
		}
		return fmt.Errorf("AMQP: publicar alerta %s: %w", alert.ID, err)
	}
	p.log.Debug().Str("alerta", alert.ID).Str("tipo", alert.Type).Msg("alerta publicada en broker")
	return nil
}

func (p *Publisher) sessionLocked() (*session, error) {
	if p.sess != nil {
		select {
		case amqpErr := <-p.sess.closed:
			ev := p.log.Warn()
			if amqpErr != nil {
				ev = ev.Str("motivo", amqpErr.Reason)
			}
			ev.Msg("conexión AMQP cerrada por el broker")
			p.dropLocked()
		default:
			return p.sess, nil
		}
	}
	if p.now().Before(p.nextDial) {
		return nil, ErrBrokerUnavailable
	}
	sess, err := p.dial(p.url, p.exchange)
	if err != nil {
		p.nextDial = p.now().Add(redialBackoff)
		p.log.Warn().Err(err).Msg("reconexión AMQP fallida")
		return nil, fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
	}
	p.log.Info().Str("exchange", p.exchange).Msg("publicador AMQP reconectado")
	p.sess = sess
	return sess, nil
}

func (p *Publisher) dropLocked() {
	if p.sess != nil {
		p.sess.close()
		p.sess = nil
	}
}

// Close cierra canal y conexión.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropLocked()
}

func buildMessage(alert dto.AlertDTO, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(alert)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("AMQP: serializar alerta: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Type:         alert.Type,
		Timestamp:    now,
		Body:         body,
	}, nil
}
