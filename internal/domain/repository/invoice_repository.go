package repository

import "github.com/facturio/billing-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para facturas y líneas.
// Los métodos de lectura filtran por tenant: un documento de otro tenant se
// comporta como inexistente (nil, nil).
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	// ReplaceItems borra y reinserta las líneas de una factura (solo DRAFT).
	ReplaceItems(invoiceID string, items []*entity.InvoiceItem) error
	// Update persiste estado, totales y marcas del ciclo de vida.
	Update(invoice *entity.Invoice) error
	GetByID(tenantID, id string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la fila de la factura (SELECT FOR UPDATE)
	// durante la secuencia guarda-entonces-mutación del motor de estados.
	GetByIDForUpdate(tenantID, id string) (*entity.Invoice, error)
	GetItems(invoiceID string) ([]*entity.InvoiceItem, error)
	// NextNumber devuelve el siguiente consecutivo del tenant.
	NextNumber(tenantID string) (int64, error)
	ListByTenant(tenantID string, limit, offset int) ([]*entity.Invoice, error)
}
