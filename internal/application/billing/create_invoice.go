package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturio/billing-api/internal/application/dto"
	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

// InvoiceUseCase crea borradores, edita líneas y consulta facturas.
// Las transiciones de estado son responsabilidad del WorkflowEngine.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
	}
}

// CreateDraft crea una factura o proforma en DRAFT con sus líneas y el
// consecutivo del tenant. No toca inventario: el stock se compromete en la
// aprobación, no en la creación ni en el envío.
func (uc *InvoiceUseCase) CreateDraft(ctx context.Context, tenantID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.DocType != entity.DocTypeInvoice && in.DocType != entity.DocTypeProforma {
		return nil, domain.ErrInvalidInput
	}

	// Validar cliente del tenant (los repos filtran por tenant: otro tenant = inexistente)
	client, err := uc.clientRepo.GetByID(tenantID, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	items, err := uc.buildItems(tenantID, in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		ClientID:  in.ClientID,
		DocType:   in.DocType,
		Status:    entity.StatusDraft,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
		Items:     items,
	}
	inv.RecalcTotals()

	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		number, err := invoiceRepo.NextNumber(tenantID)
		if err != nil {
			return err
		}
		inv.Number = number
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range inv.Items {
			item.InvoiceID = inv.ID
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, client.Name), nil
}

// UpdateItems reemplaza las líneas de un borrador y recalcula totales.
// Solo permitido en DRAFT; los demás estados devuelven error de transición.
func (uc *InvoiceUseCase) UpdateItems(ctx context.Context, tenantID, invoiceID string, in dto.UpdateItemsRequest) (*dto.InvoiceResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items, err := uc.buildItems(tenantID, in.Items)
	if err != nil {
		return nil, err
	}

	var result *entity.Invoice
	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(tenantID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.StatusDraft {
			return domain.NewTransitionError("update-items", inv.Status)
		}
		for _, item := range items {
			item.InvoiceID = inv.ID
		}
		if err := invoiceRepo.ReplaceItems(inv.ID, items); err != nil {
			return err
		}
		inv.Items = items
		inv.RecalcTotals()
		inv.UpdatedAt = time.Now()
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(result, ""), nil
}

// GetInvoice obtiene una factura con sus líneas.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, tenantID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	clientName := ""
	if client, _ := uc.clientRepo.GetByID(tenantID, inv.ClientID); client != nil {
		clientName = client.Name
	}
	return toInvoiceResponse(inv, clientName), nil
}

// ListInvoices lista las facturas del tenant (sin líneas).
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, tenantID string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	invoices, err := uc.invoiceRepo.ListByTenant(tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv, ""))
	}
	return out, nil
}

// buildItems valida y materializa las líneas: cantidad positiva, producto del
// tenant cuando hay ProductID (precio por defecto el del catálogo), y
// descripción obligatoria en líneas de texto libre.
func (uc *InvoiceUseCase) buildItems(tenantID string, in []dto.InvoiceItemRequest) ([]*entity.InvoiceItem, error) {
	items := make([]*entity.InvoiceItem, 0, len(in))
	for _, req := range in {
		if req.Quantity <= 0 || req.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item := &entity.InvoiceItem{
			ID:          uuid.New().String(),
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
		}
		if req.ProductID != "" {
			product, err := uc.productRepo.GetByID(tenantID, req.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil {
				return nil, domain.ErrProductNotFound
			}
			productID := product.ID
			item.ProductID = &productID
			if item.Description == "" {
				item.Description = product.Name
			}
			if item.UnitPrice.IsZero() {
				item.UnitPrice = product.Price
			}
		} else if item.Description == "" {
			return nil, domain.ErrInvalidInput
		}
		item.LineTotal = item.ComputeLineTotal()
		items = append(items, item)
	}
	return items, nil
}

func toInvoiceResponse(inv *entity.Invoice, clientName string) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                      inv.ID,
		TenantID:                inv.TenantID,
		ClientID:                inv.ClientID,
		ClientName:              clientName,
		Number:                  inv.Number,
		DocType:                 inv.DocType,
		Status:                  inv.Status,
		Subtotal:                inv.Subtotal,
		Total:                   inv.Total,
		ApprovedAt:              inv.ApprovedAt,
		PaidAt:                  inv.PaidAt,
		StockDeductedAt:         inv.StockDeductedAt,
		ModificationRequestedAt: inv.ModificationRequestedAt,
		CreatedBy:               inv.CreatedBy,
		CreatedAt:               inv.CreatedAt,
		Items:                   make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
	}
	for _, item := range inv.Items {
		productID := ""
		if item.ProductID != nil {
			productID = *item.ProductID
		}
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   productID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	return resp
}
