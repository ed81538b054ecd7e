package realtime

import (
	"context"
	"errors"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/application/ports"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

// Fanout reparte cada alerta entre varios publicadores (hub websocket, broker).
// Un publicador que falla no impide la entrega a los demás.
type Fanout struct {
	targets []ports.AlertPublisher
	log     *logger.Logger
}

// NewFanout ignora los publicadores nil.
func NewFanout(log *logger.Logger, targets ...ports.AlertPublisher) *Fanout {
	if log == nil {
		log = logger.Nop()
	}
	f := &Fanout{log: log}
	for _, t := range targets {
		if t != nil {
			f.targets = append(f.targets, t)
		}
	}
	return f
}

// Publish devuelve los errores unidos; cada fallo queda además registrado.
func (f *Fanout) Publish(ctx context.Context, alert dto.AlertDTO) error {
	var errs []error
	for _, t := range f.targets {
		if err := t.Publish(ctx, alert); err != nil {
			f.log.Warn().Err(err).Str("alerta", alert.ID).Msg("fallo al difundir alerta")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
