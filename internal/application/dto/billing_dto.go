package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// DocType: "invoice" o "proforma". El consecutivo lo asigna el servidor.
type CreateInvoiceRequest struct {
	ClientID string               `json:"client_id"`
	DocType  string               `json:"doc_type"`
	Items    []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura. ProductID vacío = línea de texto libre
// (no afecta inventario); en ese caso Description es obligatoria.
type InvoiceItemRequest struct {
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// UpdateItemsRequest body para PUT /api/invoices/:id/items (solo DRAFT).
type UpdateItemsRequest struct {
	Items []InvoiceItemRequest `json:"items"`
}

// InvoiceResponse factura con detalle y marcas del ciclo de vida.
type InvoiceResponse struct {
	ID                      string                `json:"id"`
	TenantID                string                `json:"tenant_id"`
	ClientID                string                `json:"client_id"`
	ClientName              string                `json:"client_name,omitempty"`
	Number                  int64                 `json:"number"`
	DocType                 string                `json:"doc_type"`
	Status                  string                `json:"status"`
	Subtotal                decimal.Decimal       `json:"subtotal"`
	Total                   decimal.Decimal       `json:"total"`
	ApprovedAt              *time.Time            `json:"approved_at,omitempty"`
	PaidAt                  *time.Time            `json:"paid_at,omitempty"`
	StockDeductedAt         *time.Time            `json:"stock_deducted_at,omitempty"`
	ModificationRequestedAt *time.Time            `json:"modification_requested_at,omitempty"`
	CreatedBy               string                `json:"created_by"`
	CreatedAt               time.Time             `json:"created_at"`
	Items                   []InvoiceItemResponse `json:"items"`
}

// InvoiceItemResponse línea en la respuesta.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// StockMovementResponse entrada del libro de inventario en respuestas.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	InvoiceID     string    `json:"invoice_id,omitempty"`
	Type          string    `json:"type"`
	QuantityDelta int64     `json:"quantity_delta"`
	ActorID       string    `json:"actor_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	TaxID    string `json:"tax_id"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}
