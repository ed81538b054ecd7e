// Package pdf genera el reporte semanal de alertas del laboratorio.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + laboratorio  │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: No leídas | CRITICA | ALTA | MEDIA | BAJA          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Prioridad | Tipo | Título | Insumo / Lote | Creada  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}

	priorityColors = map[string]*props.Color{
		"CRITICA": {Red: 220, Green: 38, Blue: 38},
		"ALTA":    {Red: 234, Green: 88, Blue: 12},
		"MEDIA":   {Red: 245, Green: 158, Blue: 11},
		"BAJA":    {Red: 59, Green: 130, Blue: 246},
	}
)

var priorityOrder = []string{"CRITICA", "ALTA", "MEDIA", "BAJA"}

// ── Generator ─────────────────────────────────────────────────────────────────

// AlertReportGenerator arma el PDF del reporte semanal con Maroto v2.
type AlertReportGenerator struct {
	labName string
}

// NewAlertReportGenerator construye el generador; labName aparece en el encabezado.
func NewAlertReportGenerator(labName string) *AlertReportGenerator {
	return &AlertReportGenerator{labName: labName}
}

// Generate devuelve los bytes del PDF.
func (g *AlertReportGenerator) Generate(_ context.Context, report dto.WeeklyReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte semanal de alertas", true).
		WithAuthor(g.labName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.labName, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(report.Urgent) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin alertas urgentes pendientes.", props.Text{Size: 9, Top: 3, Color: colorGray}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(tableRows(report.Urgent)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Reporte generado automáticamente por el sistema de inventario del laboratorio. "+
			"Las alertas urgentes son las no leídas de prioridad CRITICA o ALTA.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// WriteFile genera el PDF en dir como reporte-alertas-YYYYMMDD.pdf y devuelve la ruta.
func (g *AlertReportGenerator) WriteFile(ctx context.Context, dir string, report dto.WeeklyReportDTO) (string, error) {
	data, err := g.Generate(ctx, report)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: crear directorio %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(report))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: escribir %s: %w", path, err)
	}
	return path, nil
}

// FileName nombre del archivo según la fecha de generación.
func FileName(report dto.WeeklyReportDTO) string {
	return "reporte-alertas-" + report.GeneratedAt.Format("20060102") + ".pdf"
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(labName string, report dto.WeeklyReportDTO) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("REPORTE SEMANAL DE ALERTAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(labName, "Laboratorio"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 10, Align: align.Right, Top: 7,
			}),
		),
	)
}

// summaryRow: total de no leídas y conteo por prioridad.
func summaryRow(report dto.WeeklyReportDTO) core.Row {
	cell := func(label, value string, c *props.Color) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: c, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 14, Align: align.Center, Top: 6}),
		)
	}
	cols := []core.Col{cell("NO LEÍDAS", strconv.Itoa(report.Unread), colorPrimary)}
	for _, p := range priorityOrder {
		cols = append(cols, cell(p, strconv.Itoa(report.UnreadByPriority[p]), priorityColors[p]))
	}
	cols = append(cols, col.New(2))
	return row.New(16).Add(cols...)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Prioridad", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Título", 4, align.Left),
		h("Insumo / Lote", 2, align.Left),
		h("Creada", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRows(alerts []dto.AlertDTO) []core.Row {
	result := make([]core.Row, 0, len(alerts))
	for _, a := range alerts {
		ref := a.ItemName
		if a.LotNumber != "" {
			ref = a.LotNumber
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(a.Priority, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1, Color: priorityColors[a.Priority],
			})),
			col.New(2).Add(text.New(a.Type, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(a.Title, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(ref, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(a.CreatedAt.Format("02/01 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
