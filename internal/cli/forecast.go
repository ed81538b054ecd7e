package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-lab/internal/domain"
)

func newForecastCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "forecast <insumo-id>",
		Short: "Consulta el servicio externo de predicción para un insumo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, deps, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			res := deps.Forecast.Predict(commandContext(cmd), args[0])
			if !res.Available {
				return fmt.Errorf("%w: %s", domain.ErrServiceUnavailable, res.Error)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Forecast)
		},
	}
}

func newTrendCommand(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "trend <insumo-id>",
		Short: "Tendencia, promedio diario y agotamiento estimado de un insumo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, deps, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			ctx := commandContext(cmd)
			id := args[0]
			item, err := deps.ItemUC.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("insumo %s no encontrado", id)
				}
				return err
			}
			trend, err := deps.Analyzer.Trend(ctx, id)
			if err != nil {
				return err
			}
			avg, err := deps.Analyzer.AverageDaily(ctx, id, days)
			if err != nil {
				return err
			}
			pred, err := deps.Analyzer.StockoutPrediction(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", item.Name, item.Code)
			fmt.Fprintf(out, "tendencia: %s\n", trend)
			fmt.Fprintf(out, "promedio diario (%d días): %s\n", days, avg.StringFixed(2))
			if pred.DaysRemaining == nil {
				fmt.Fprintln(out, "agotamiento estimado: sin consumo reciente")
			} else {
				fmt.Fprintf(out, "agotamiento estimado: %d días (%s)\n", *pred.DaysRemaining, pred.StockoutDate.Format("2006-01-02"))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "dias", 30, "ventana del promedio diario")
	return cmd
}
