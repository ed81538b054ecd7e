package realtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/infrastructure/realtime"
)

type stubPublisher struct {
	got []string
	err error
}

func (s *stubPublisher) Publish(_ context.Context, a dto.AlertDTO) error {
	s.got = append(s.got, a.ID)
	return s.err
}

func TestFanout_FalloNoCortaLaEntrega(t *testing.T) {
	roto := &stubPublisher{err: errors.New("broker caído")}
	ok := &stubPublisher{}
	f := realtime.NewFanout(nil, roto, nil, ok)

	err := f.Publish(context.Background(), dto.AlertDTO{ID: "a1"})

	assert.Error(t, err)
	assert.Equal(t, []string{"a1"}, roto.got)
	assert.Equal(t, []string{"a1"}, ok.got)
}
