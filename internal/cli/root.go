// Package cli comandos de labctl: barridos, limpieza, reporte y consultas de
// predicción sobre el mismo almacén que usa la API.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-lab/internal/infrastructure/container"
	"github.com/jhoicas/inventario-lab/pkg/config"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

// Version se fija en build con -ldflags.
var Version = "dev"

type rootOptions struct {
	cfgFile string
}

// NewRootCommand árbol de comandos completo.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "labctl",
		Short:        "Herramientas de operación del inventario de laboratorio",
		Long:         "labctl ejecuta a demanda las tareas del planificador (barrido de alertas, limpieza, reporte semanal) y consulta el consumo y la predicción de un insumo.",
		Version:      Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "archivo de configuración (por defecto .env / config/config.env)")

	root.AddCommand(
		newScanCommand(opts),
		newPurgeCommand(opts),
		newReportCommand(opts),
		newForecastCommand(opts),
		newTrendCommand(opts),
	)
	return root
}

// Execute ejecuta la CLI y sale con código 1 si falla.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup carga la configuración y arma el contenedor; el llamador debe cerrar.
func (o *rootOptions) setup(cmd *cobra.Command) (*config.Config, *container.Container, error) {
	cfg, err := config.LoadFile(o.cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.App.LogLevel)
	deps, err := container.Build(commandContext(cmd), cfg, log, container.Options{})
	if err != nil {
		return nil, nil, err
	}
	return cfg, deps, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
