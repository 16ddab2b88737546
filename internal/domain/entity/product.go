package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de un tenant.
// Quantity es la cantidad física autoritativa y solo se muta a través de
// movimientos del libro de inventario (nunca directamente desde facturación).
// MinQuantity es un umbral informativo de stock bajo.
type Product struct {
	ID          string
	TenantID    string
	SKU         string // código único por tenant
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta sugerido
	Quantity    int64
	MinQuantity int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelowMinimum indica si el producto está por debajo de su umbral de stock.
func (p *Product) BelowMinimum() bool {
	return p.Quantity <= p.MinQuantity
}
