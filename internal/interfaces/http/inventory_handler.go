package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturio/billing-api/internal/application/dto"
	"github.com/facturio/billing-api/internal/application/inventory"
	"github.com/facturio/billing-api/internal/domain/entity"
)

// InventoryHandler expone el libro de inventario (protegido): ajustes
// manuales y consulta de movimientos.
type InventoryHandler struct {
	ledger *inventory.StockLedger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RegisterAdjustment registra un ajuste manual de stock.
// POST /api/inventory/adjustments
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.QuantityDelta == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y quantity_delta (≠ 0) son requeridos"})
	}
	err := h.ledger.RegisterAdjustment(c.Context(), GetTenantID(c), GetUserID(c), in.ProductID, in.QuantityDelta)
	if err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// MovementsByInvoice lista los asientos generados por un documento.
// GET /api/invoices/:id/movements
func (h *InventoryHandler) MovementsByInvoice(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	movements, err := h.ledger.MovementsFor(c.Context(), GetTenantID(c), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

// MovementsByProduct lista el historial de un producto.
// GET /api/products/:id/movements
func (h *InventoryHandler) MovementsByProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	movements, err := h.ledger.MovementsForProduct(c.Context(), GetTenantID(c), id, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

func toMovementResponses(movements []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		r := dto.StockMovementResponse{
			ID:            m.ID,
			ProductID:     m.ProductID,
			Type:          m.Type,
			QuantityDelta: m.QuantityDelta,
			ActorID:       m.ActorID,
			CreatedAt:     m.CreatedAt,
		}
		if m.InvoiceID != nil {
			r.InvoiceID = *m.InvoiceID
		}
		out = append(out, r)
	}
	return out
}
