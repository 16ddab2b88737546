package billing

import (
	"context"

	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

// DeliveryNoteUseCase proyecta el albarán (nota de entrega) de una factura
// con inventario ya comprometido. Solo lectura: no participa en el motor de
// estados ni en el libro de inventario.
type DeliveryNoteUseCase struct {
	invoiceRepo repository.InvoiceRepository
	tenantRepo  repository.TenantRepository
	clientRepo  repository.ClientRepository
	pdf         DeliveryNotePDFGenerator
}

// NewDeliveryNoteUseCase construye el proyector.
func NewDeliveryNoteUseCase(
	invoiceRepo repository.InvoiceRepository,
	tenantRepo repository.TenantRepository,
	clientRepo repository.ClientRepository,
	pdf DeliveryNotePDFGenerator,
) *DeliveryNoteUseCase {
	return &DeliveryNoteUseCase{
		invoiceRepo: invoiceRepo,
		tenantRepo:  tenantRepo,
		clientRepo:  clientRepo,
		pdf:         pdf,
	}
}

// GeneratePDF genera el albarán en PDF. Requiere una factura con stock
// descontado (APPROVED o PAID con StockDeductedAt marcado): un albarán sin
// inventario comprometido no representa nada entregable.
func (uc *DeliveryNoteUseCase) GeneratePDF(ctx context.Context, tenantID, invoiceID string) ([]byte, error) {
	inv, err := uc.invoiceRepo.GetByID(tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.DocType != entity.DocTypeInvoice || inv.StockDeductedAt == nil {
		return nil, domain.NewTransitionError("delivery-note", inv.Status)
	}
	items, err := uc.invoiceRepo.GetItems(inv.ID)
	if err != nil {
		return nil, err
	}
	tenant, err := uc.tenantRepo.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(tenantID, inv.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return uc.pdf.GenerateDeliveryNotePDF(ctx, inv, tenant, client, items)
}
