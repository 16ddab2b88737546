package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeSaleDeduction = "sale-deduction" // descuento por aprobación de factura
	MovementTypeSaleReversal  = "sale-reversal"  // restauración por des-pago (markUnpaid)
	MovementTypeAdjustment    = "adjustment"     // ajuste manual
)

// StockMovement representa una entrada inmutable del libro de inventario.
// QuantityDelta es positivo para entradas y negativo para salidas; la
// cantidad del producto se ajusta atómicamente en la misma transacción.
// InvoiceID referencia débilmente a la factura de origen: borrar la factura
// no borra sus movimientos (son pista de auditoría).
type StockMovement struct {
	ID            string
	TenantID      string
	ProductID     string
	InvoiceID     *string
	Type          string // sale-deduction, sale-reversal, adjustment
	QuantityDelta int64
	ActorID       string
	CreatedAt     time.Time
}
