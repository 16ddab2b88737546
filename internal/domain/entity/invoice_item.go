package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea de una factura o proforma.
// ProductID puede ser nil para líneas de texto libre (servicios, conceptos);
// esas líneas no generan movimientos de inventario.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	ProductID   *string
	Description string
	Quantity    int64 // unidades enteras
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal // Quantity × UnitPrice truncado a centavo
}

// ComputeLineTotal devuelve cantidad × precio unitario truncado a 2 decimales.
func (it *InvoiceItem) ComputeLineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)).Truncate(2)
}
