package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/application/ports"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

var (
	_ ports.AlertPublisher = (*Hub)(nil)
	_ ports.RawBroadcaster = (*Hub)(nil)
)

// DefaultBuffer mensajes pendientes por suscriptor antes de descartar.
const DefaultBuffer = 32

// Subscriber un cliente conectado al canal de alertas.
type Subscriber struct {
	ID   string
	send chan []byte
}

// Messages canal de lectura; se cierra al desuscribir.
func (s *Subscriber) Messages() <-chan []byte { return s.send }

// Hub difusión en proceso hacia los clientes websocket. Publicar nunca bloquea:
// si el buffer de un suscriptor está lleno el mensaje se descarta para ese suscriptor.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscriber
	buffer int
	log    *logger.Logger
}

// NewHub crea el hub. buffer <= 0 usa DefaultBuffer.
func NewHub(buffer int, log *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{subs: make(map[string]*Subscriber), buffer: buffer, log: log}
}

// Subscribe registra un cliente nuevo con id aleatorio.
func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{ID: uuid.New().String(), send: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.subs[s.ID] = s
	h.mu.Unlock()
	h.log.Debug().Str("cliente", s.ID).Msg("cliente websocket suscrito")
	return s
}

// Unsubscribe retira el cliente y cierra su canal. Idempotente.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	s, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
		close(s.send)
	}
	h.mu.Unlock()
	if ok {
		h.log.Debug().Str("cliente", id).Msg("cliente websocket desconectado")
	}
}

// Len suscriptores activos.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish serializa la alerta y la difunde.
func (h *Hub) Publish(_ context.Context, alert dto.AlertDTO) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("serializar alerta: %w", err)
	}
	h.Broadcast(payload)
	return nil
}

// Broadcast entrega payload a todos los suscriptores sin bloquear.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, s := range h.subs {
		select {
		case s.send <- payload:
		default:
			h.log.Warn().Str("cliente", id).Msg("buffer lleno, mensaje descartado")
		}
	}
}
