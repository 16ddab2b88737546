package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/facturio/billing-api/internal/application/billing"
	"github.com/facturio/billing-api/internal/application/dto"
)

// InvoiceHandler maneja documentos de facturación: borradores, consultas y
// las transiciones del ciclo de vida (protegido).
type InvoiceHandler struct {
	uc       *billing.InvoiceUseCase
	engine   *billing.WorkflowEngine
	delivery *billing.DeliveryNoteUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, engine *billing.WorkflowEngine, delivery *billing.DeliveryNoteUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, engine: engine, delivery: delivery}
}

// Create crea un borrador de factura o proforma.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateDraft(c.Context(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene el detalle completo de un documento.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.uc.GetInvoice(c.Context(), GetTenantID(c), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// List lista los documentos del tenant.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListInvoices(c.Context(), GetTenantID(c), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// UpdateItems reemplaza las líneas de un borrador y recalcula totales.
// PUT /api/invoices/:id/items
func (h *InvoiceHandler) UpdateItems(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateItems(c.Context(), GetTenantID(c), id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ── Transiciones del ciclo de vida ────────────────────────────────────────────

// transition aplica una operación del motor de estados y responde el documento.
func (h *InvoiceHandler) transition(
	c *fiber.Ctx,
	op func(tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error),
) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := op(GetTenantID(c), id, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Submit envía un borrador a aprobación (DRAFT → PENDING).
// POST /api/invoices/:id/submit
func (h *InvoiceHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, func(tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
		return h.engine.Submit(c.Context(), tenantID, invoiceID, actorID)
	})
}

// Validate valida una proforma (DRAFT → APPROVED, nunca toca inventario).
// POST /api/invoices/:id/validate
func (h *InvoiceHandler) Validate(c *fiber.Ctx) error {
	return h.transition(c, func(tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
		return h.engine.ValidateProforma(c.Context(), tenantID, invoiceID, actorID)
	})
}

// Approve aprueba una factura y descuenta inventario (PENDING → APPROVED).
// POST /api/invoices/:id/approve
func (h *InvoiceHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, func(tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
		return h.engine.Approve(c.Context(), tenantID, invoiceID, actorID)
	})
}

// MarkPaid marca una factura aprobada como pagada (APPROVED → PAID).
// POST /api/invoices/:id/mark-paid
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	return h.transition(c, func(tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
		return h.engine.MarkPaid(c.Context(), tenantID, invoiceID, actorID)
	})
}

// MarkUnpaid revierte el pago y restaura inventario (PAID → PENDING).
// POST /api/invoices/:id/mark-unpaid
func (h *InvoiceHandler) MarkUnpaid(c *fiber.Ctx) error {
	return h.transition(c, func(tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
		return h.engine.MarkUnpaid(c.Context(), tenantID, invoiceID, actorID)
	})
}

// RequestModification abre una solicitud de modificación sobre un documento
// aprobado o pagado.
// POST /api/invoices/:id/request-modification
func (h *InvoiceHandler) RequestModification(c *fiber.Ctx) error {
	return h.transition(c, func(tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
		return h.engine.RequestModification(c.Context(), tenantID, invoiceID, actorID)
	})
}

// ApproveModification cierra la solicitud de modificación abierta.
// POST /api/invoices/:id/approve-modification
func (h *InvoiceHandler) ApproveModification(c *fiber.Ctx) error {
	return h.transition(c, func(tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
		return h.engine.ApproveModification(c.Context(), tenantID, invoiceID, actorID)
	})
}

// Recalc recalcula los totales de un borrador desde sus líneas.
// POST /api/invoices/:id/recalc
func (h *InvoiceHandler) Recalc(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.engine.RecalcTotals(c.Context(), GetTenantID(c), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// DeliveryNote genera el albarán en PDF de una factura con inventario
// comprometido.
// GET /api/invoices/:id/delivery-note
func (h *InvoiceHandler) DeliveryNote(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, err := h.delivery.GeneratePDF(c.Context(), GetTenantID(c), id)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="albaran-%s.pdf"`, id))
	return c.Send(pdfBytes)
}
