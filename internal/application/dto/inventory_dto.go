package dto

// AdjustStockRequest body para POST /api/inventory/adjustments.
// QuantityDelta es relativo: positivo añade stock, negativo retira.
type AdjustStockRequest struct {
	ProductID     string `json:"product_id"`
	QuantityDelta int64  `json:"quantity_delta"`
}
