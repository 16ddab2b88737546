package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de facturación.
const (
	DocTypeInvoice  = "invoice"  // factura
	DocTypeProforma = "proforma" // proforma (nunca afecta inventario)
)

// Estados del ciclo de vida de una factura.
// Las proformas solo usan DRAFT y APPROVED (validación directa).
const (
	StatusDraft    = "DRAFT"    // editable, totales recalculables
	StatusPending  = "PENDING"  // enviada, pendiente de aprobación
	StatusApproved = "APPROVED" // aprobada; inventario descontado
	StatusPaid     = "PAID"     // pagada; sin efecto adicional sobre inventario
)

// Invoice representa la cabecera de una factura o proforma con su ciclo de
// vida. Los totales son derivados de las líneas y nunca se asignan a mano;
// RecalcTotals los recalcula truncando cada línea a centavo.
type Invoice struct {
	ID       string
	TenantID string
	ClientID string
	Number   int64  // consecutivo por tenant
	DocType  string // invoice | proforma
	Status   string

	Subtotal decimal.Decimal
	Total    decimal.Decimal

	// Marcas del ciclo de vida. StockDeductedAt es la guarda de idempotencia
	// del inventario: solo se descuenta stock si es nil y solo se restaura
	// si no lo es.
	ApprovedAt              *time.Time
	PaidAt                  *time.Time
	StockDeductedAt         *time.Time
	ModificationRequestedAt *time.Time

	CreatedBy string // UserID del creador
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []*InvoiceItem
}

// IsValidStatus verifica que un estado pertenezca al ciclo de vida.
func IsValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusPaid:
		return true
	}
	return false
}

// RecalcTotals recalcula subtotal y total desde las líneas. Cada línea se
// trunca a 2 decimales (truncamiento a centavo, determinista) antes de sumar.
func (inv *Invoice) RecalcTotals() {
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		item.LineTotal = item.ComputeLineTotal()
		subtotal = subtotal.Add(item.LineTotal)
	}
	inv.Subtotal = subtotal
	inv.Total = subtotal
}

// HasPendingModification indica si hay una solicitud de modificación abierta.
func (inv *Invoice) HasPendingModification() bool {
	return inv.ModificationRequestedAt != nil
}
