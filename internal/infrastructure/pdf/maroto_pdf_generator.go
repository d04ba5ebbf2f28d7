// Package pdf genera el informe de stock en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + aplicación  │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: artículos / bajo mínimo / stock negativo           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Nombre | Unidad | Stock | Mínimo | Estado      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

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

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
)

var _ transfer.StockReportGenerator = (*MarotoStockReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 190, Green: 30, Blue: 45}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReportGenerator implementa transfer.StockReportGenerator usando Maroto v2.
type MarotoStockReportGenerator struct {
	appName string
}

// NewMarotoStockReportGenerator construye el generador. appName aparece en la cabecera.
func NewMarotoStockReportGenerator(appName string) *MarotoStockReportGenerator {
	return &MarotoStockReportGenerator{appName: appName}
}

// StockReport genera el PDF y devuelve sus bytes.
func (g *MarotoStockReportGenerator) StockReport(
	_ context.Context,
	generatedAt time.Time,
	records []dto.SnapshotRecord,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de stock", true).
		WithAuthor(nonEmpty(g.appName, "inventario-ledger"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(records))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	if len(records) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin artículos registrados.", props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}
	for _, r := range tableDetailRows(records) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación (der).
func headerRow(appName string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("INFORME DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(appName, "inventario-ledger"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(generatedAt.UTC().Format("2006-01-02 15:04:05 UTC"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

// summaryRow: totales del informe.
func summaryRow(records []dto.SnapshotRecord) core.Row {
	var low, negative int
	for _, r := range records {
		if r.BelowMin {
			low++
		}
		if r.Qty < 0 {
			negative++
		}
	}
	cell := func(label string, n int, color *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1}),
			text.New(strconv.Itoa(n), props.Text{Style: fontstyle.Bold, Size: 11, Color: color, Top: 5}),
		)
	}
	lowColor := colorPrimary
	if low > 0 {
		lowColor = colorAlert
	}
	negColor := colorPrimary
	if negative > 0 {
		negColor = colorAlert
	}
	return row.New(13).Add(
		cell("Artículos", len(records), colorPrimary),
		cell("Bajo mínimo", low, lowColor),
		cell("Stock negativo", negative, negColor),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Nombre", 4, align.Left),
		h("Unidad", 1, align.Center),
		h("Stock", 2, align.Right),
		h("Mínimo", 2, align.Right),
		h("Estado", 1, align.Center),
	)
}

// tableDetailRows: una fila por artículo; los que están bajo mínimo van en rojo.
func tableDetailRows(records []dto.SnapshotRecord) []core.Row {
	result := make([]core.Row, 0, len(records))
	for _, r := range records {
		color := (*props.Color)(nil)
		status := "OK"
		if r.BelowMin {
			color = colorAlert
			status = "BAJO"
		}
		cell := func(s string, size int, a align.Type, bold bool) core.Col {
			p := props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color}
			if bold {
				p.Style = fontstyle.Bold
			}
			return col.New(size).Add(text.New(s, p))
		}
		result = append(result, row.New(7).Add(
			cell(r.SKU, 2, align.Left, false),
			cell(r.Name, 4, align.Left, false),
			cell(r.Unit, 1, align.Center, false),
			cell(strconv.FormatInt(r.Qty, 10), 2, align.Right, true),
			cell(strconv.FormatInt(r.MinQty, 10), 2, align.Right, false),
			cell(status, 1, align.Center, r.BelowMin),
		))
	}
	return result
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
