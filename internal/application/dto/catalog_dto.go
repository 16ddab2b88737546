package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	MinQuantity int64           `json:"min_quantity"`
}

// UpdateProductRequest body para PUT /api/products/:id.
// La cantidad no se edita aquí: solo se muta vía movimientos de inventario.
type UpdateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	MinQuantity int64           `json:"min_quantity"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	MinQuantity int64           `json:"min_quantity"`
	BelowMin    bool            `json:"below_min"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateTenantRequest body para POST /api/tenants.
type CreateTenantRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// TenantResponse tenant en respuestas.
type TenantResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TaxID  string `json:"tax_id"`
	Status string `json:"status"`
}
