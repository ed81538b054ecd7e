package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-lab/internal/application/alert"
	"github.com/jhoicas/inventario-lab/internal/domain/entity"
)

func newScanCommand(opts *rootOptions) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Ejecuta un barrido de alertas",
		Long:  "Crea las alertas de stock bajo, caducidad, vencimiento y agotamiento próximo que correspondan. Las ya emitidas en las últimas 24 horas no se repiten.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, deps, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			res, err := deps.AlertSvc.Scan(commandContext(cmd), kind)
			if err != nil && res.Created == 0 {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "barrido %s: %d alertas creadas\n", res.Scan, res.Created)
			if len(res.Alerts) > 0 {
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIPO\tPRIORIDAD\tTÍTULO")
				for _, a := range res.Alerts {
					fmt.Fprintf(w, "%s\t%s\t%s\n", a.Type, a.Priority, a.Title)
				}
				w.Flush()
			}
			return err
		},
	}
	cmd.Flags().StringVar(&kind, "tipo", alert.KindAll, "todos | stock-bajo | caducidad | vencidos | agotamiento")
	return cmd
}

func newPurgeCommand(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Elimina alertas leídas antiguas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, deps, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			if !cmd.Flags().Changed("dias") {
				days = cfg.Scheduler.RetentionDays
			}
			res, err := deps.AlertSvc.Purge(commandContext(cmd), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "alertas leídas con más de %d días eliminadas: %d\n", res.RetentionDays, res.Deleted)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "dias", 30, "antigüedad mínima en días (por defecto ALERT_RETENTION_DAYS)")
	return cmd
}

func newReportCommand(opts *rootOptions) *cobra.Command {
	var pdfPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Reporte de alertas no leídas por prioridad",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, deps, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			ctx := commandContext(cmd)
			report, err := deps.AlertSvc.WeeklyReport(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "=== Reporte de alertas (%s) ===\n", report.GeneratedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "No leídas: %d\n", report.Unread)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, p := range entity.Priorities {
				fmt.Fprintf(w, "  %s\t%d\n", p, report.UnreadByPriority[string(p)])
			}
			w.Flush()

			if pdfPath == "" {
				return nil
			}
			body, err := deps.Reports.Generate(ctx, report)
			if err != nil {
				return err
			}
			if err := os.WriteFile(pdfPath, body, 0o644); err != nil {
				return fmt.Errorf("escribir PDF: %w", err)
			}
			fmt.Fprintf(out, "PDF escrito en %s\n", pdfPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "ruta del PDF a generar")
	return cmd
}
