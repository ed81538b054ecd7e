package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lab/internal/infrastructure/container"
	"github.com/jhoicas/inventario-lab/pkg/config"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

func memoryDeps(t *testing.T) *container.Container {
	t.Helper()
	deps, err := container.Build(context.Background(), &config.Config{
		App: config.AppConfig{Name: "inventario-lab"},
		DB:  config.DBConfig{Driver: "memory"},
	}, logger.Nop(), container.Options{})
	require.NoError(t, err)
	t.Cleanup(deps.Close)
	return deps
}

func schedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:       true,
		SweepInterval: 10 * time.Second,
		PurgeAt:       "02:00",
		RetentionDays: 30,
		ReportWeekday: time.Monday,
		ReportAt:      "08:00",
	}
}

func TestNewScheduler_Desactivado(t *testing.T) {
	cfg := schedulerConfig()
	cfg.Enabled = false
	sched, err := newScheduler(cfg, memoryDeps(t), logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, sched)
}

func TestNewScheduler_ConfiguracionInvalidaDevuelveError(t *testing.T) {
	cfg := schedulerConfig()
	cfg.PurgeAt = "25:99"
	sched, err := newScheduler(cfg, memoryDeps(t), logger.Nop())
	assert.Error(t, err, "el error sube a run para que los defer cierren las conexiones")
	assert.Nil(t, sched)
}

func TestNewScheduler_Valido(t *testing.T) {
	sched, err := newScheduler(schedulerConfig(), memoryDeps(t), logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, sched)
}
