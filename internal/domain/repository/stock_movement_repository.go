package repository

import "github.com/facturio/billing-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia del libro de
// inventario. Las entradas son inmutables: solo Create y lecturas.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByInvoice devuelve los movimientos ligados a una factura en orden
	// de creación; la reversión calcula desde aquí las cantidades exactas.
	ListByInvoice(tenantID, invoiceID string) ([]*entity.StockMovement, error)
	ListByProduct(tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
