// Package pdf implementa la generación del albarán (nota de entrega) de una
// factura con inventario ya comprometido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIF  │  N° Albarán + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                            │
//	│  DESTINATARIO: Nombre + NIF + contacto                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Importe               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                      │
//	│  FIRMAS: Entregado por / Recibido por                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
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

	"github.com/facturio/billing-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 22, Green: 84, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoDeliveryNoteGenerator implementa billing.DeliveryNotePDFGenerator
// usando Maroto v2.
type MarotoDeliveryNoteGenerator struct{}

// NewMarotoDeliveryNoteGenerator construye el generador.
func NewMarotoDeliveryNoteGenerator() *MarotoDeliveryNoteGenerator {
	return &MarotoDeliveryNoteGenerator{}
}

// GenerateDeliveryNotePDF genera el PDF del albarán y devuelve sus bytes.
func (g *MarotoDeliveryNoteGenerator) GenerateDeliveryNotePDF(
	_ context.Context,
	invoice *entity.Invoice,
	tenant *entity.Tenant,
	client *entity.Client,
	items []*entity.InvoiceItem,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Albarán de entrega", true).
		WithAuthor(tenant.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, tenant))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(tenant))
	m.AddRows(destinatarioRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(invoice))

	m.AddRows(line.NewRow(8))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar albarán: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + NIF (izq) y N° albarán + fecha (der).
func headerRow(invoice *entity.Invoice, tenant *entity.Tenant) core.Row {
	numero := fmt.Sprintf("ALB-%06d", invoice.Number)
	fecha := deliveryDate(invoice).Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(tenant.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIF: "+nonEmpty(tenant.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ALBARÁN DE ENTREGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos del tenant emisor.
func emisorRow(tenant *entity.Tenant) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(tenant.Address, "—"),
				nonEmpty(tenant.Phone, "—"),
				nonEmpty(tenant.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// destinatarioRow: datos del cliente receptor de la mercancía.
func destinatarioRow(client *entity.Client) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIF: %s   |   Dirección: %s   |   Tel: %s",
				nonEmpty(client.TaxID, "—"),
				nonEmpty(client.Address, "—"),
				nonEmpty(client.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Importe", 3, align.Right),
	)
}

// tableItemRows: una fila por línea del documento.
func tableItemRows(items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				it.LineTotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: total del documento alineado a la derecha.
func totalRow(invoice *entity.Invoice) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 2,
			}),
		),
		col.New(3).Add(
			text.New(invoice.Total.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 2,
			}),
		),
	)
}

// signatureRow: bloque de firmas de entrega y recepción.
func signatureRow() core.Row {
	sig := func(label string) core.Col {
		return col.New(5).Add(
			text.New("________________________", props.Text{
				Size: 9, Align: align.Center, Top: 1, Color: colorGray,
			}),
			text.New(label, props.Text{
				Size: 8, Align: align.Center, Top: 7, Color: colorGray,
			}),
		)
	}
	return row.New(16).Add(
		sig("Entregado por"),
		col.New(2),
		sig("Recibido por"),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// deliveryDate: fecha de compromiso del inventario; si no existe (no debería
// ocurrir, el caso de uso lo exige) usa la de creación.
func deliveryDate(invoice *entity.Invoice) time.Time {
	if invoice.StockDeductedAt != nil {
		return *invoice.StockDeductedAt
	}
	return invoice.CreatedAt
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
