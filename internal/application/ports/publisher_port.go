package ports

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
)

// AlertPublisher difunde alertas a los suscriptores (websocket, broker).
// La entrega es best-effort: Publish no debe bloquear por lectores lentos o ausentes.
type AlertPublisher interface {
	Publish(ctx context.Context, alert dto.AlertDTO) error
}

// RawBroadcaster reenvía un mensaje tal cual a todos los suscriptores (eco de conectividad).
type RawBroadcaster interface {
	Broadcast(payload []byte)
}

// JobLocker bloqueo distribuido para que un solo proceso ejecute cada tick programado.
// ok=false sin error significa que otro proceso tiene el bloqueo.
type JobLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}
