// Package pdf genera el reporte de existencias en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Reporte de existencias  │  Fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: N° productos / N° ubicaciones                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR PRODUCTO: Nombre + SKU                                  │
//	│     Ubicación | Dirección | Saldo                            │
//	│     TOTAL                                                    │
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

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ inventory.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorNegative = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{now: time.Now}
}

// GenerateStockReportPDF genera el PDF y devuelve sus bytes. Productos y ubicaciones
// se listan en el orden recibido.
func (g *MarotoPDFGenerator) GenerateStockReportPDF(
	_ context.Context,
	report entity.StockReport,
	products []*entity.Product,
	locations []*entity.Location,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de existencias", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(len(products), len(locations)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(products) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin productos registrados.", props.Text{Size: 9, Top: 3, Color: colorGray}),
		)))
	}
	for _, p := range products {
		m.AddRows(productRows(report, p, locations)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("REPORTE DE EXISTENCIAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.UTC().Format("02/01/2006 15:04 MST"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func summaryRow(products, locations int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Productos: %d   |   Ubicaciones: %d", products, locations), props.Text{
			Size: 8, Top: 2, Color: colorGray,
		}),
	))
}

// productRows: cabecera del producto, una fila por ubicación y el total.
func productRows(report entity.StockReport, p *entity.Product, locations []*entity.Location) []core.Row {
	rows := []core.Row{
		row.New(9).Add(
			col.New(8).Add(text.New(p.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 3,
			})),
			col.New(4).Add(text.New("SKU: "+p.SKU, props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			})),
		),
	}
	for _, l := range locations {
		balance := report.Balance(p.ID, l.ID)
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 4})),
			col.New(5).Add(text.New(nonEmpty(l.Address, "-"), props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(3).Add(text.New(strconv.FormatInt(balance, 10), balanceProps(balance, false))),
		))
	}
	total := report.Total(p.ID)
	rows = append(rows,
		row.New(7).Add(
			col.New(9).Add(text.New("TOTAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 2, Color: colorPrimary,
			})),
			col.New(3).Add(text.New(strconv.FormatInt(total, 10), balanceProps(total, true))),
		),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}),
	)
	return rows
}

func balanceProps(v int64, bold bool) props.Text {
	p := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
	if bold {
		p.Style = fontstyle.Bold
	}
	if v < 0 {
		p.Color = colorNegative
	}
	return p
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
