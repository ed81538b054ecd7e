package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-lab/internal/application/ports"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

var _ ports.JobLocker = (*Locker)(nil)

const lockPrefix = "inventario:lock:"

// Locker bloqueo distribuido de tareas programadas sobre redislock.
type Locker struct {
	client *redislock.Client
	log    *logger.Logger
}

// NewLocker construye el bloqueo sobre un cliente ya conectado.
func NewLocker(rdb *redis.Client, log *logger.Logger) *Locker {
	if log == nil {
		log = logger.Nop()
	}
	return &Locker{client: redislock.New(rdb), log: log}
}

// TryLock intenta tomar key sin reintentos. ok=false si otra réplica lo tiene.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	lock, err := l.client.Obtain(ctx, lockPrefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: obtener bloqueo %s: %w", key, err)
	}
	release := func() {
		// contexto propio: el del tick puede estar cancelado al liberar
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("lock", key).Msg("no se pudo liberar el bloqueo")
		}
	}
	return release, true, nil
}
