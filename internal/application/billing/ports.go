package billing

import (
	"context"
	"time"

	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción serializable que
// incluye los repos de facturación e inventario. La guarda, la mutación de
// estado y los asientos del libro se confirman juntos o se revierten juntos.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockLedger interfaz para integrar el motor de estados con el libro de
// inventario. PostMovementInTx ejecuta un asiento usando los repositorios del
// caller (misma transacción); si retorna error el caller hace rollback.
type StockLedger interface {
	PostMovementInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		tenantID, productID string,
		invoiceID *string,
		movementType string,
		quantityDelta int64,
		actorID string,
		at time.Time,
	) error
}

// DeliveryNotePDFGenerator genera el albarán (nota de entrega) de una
// factura con inventario comprometido.
type DeliveryNotePDFGenerator interface {
	GenerateDeliveryNotePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		tenant *entity.Tenant,
		client *entity.Client,
		items []*entity.InvoiceItem,
	) ([]byte, error)
}
