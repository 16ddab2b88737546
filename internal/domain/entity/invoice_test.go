package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/facturio/billing-api/internal/domain/entity"
)

func TestComputeLineTotal_TruncaACentavo(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		quantity int64
		want     string
	}{
		{"exacto", "25.00", 4, "100"},
		{"trunca hacia abajo", "3.333", 3, "9.99"},
		{"subcentavo queda en cero", "0.009", 1, "0"},
		{"no redondea", "10.005", 1, "10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := &entity.InvoiceItem{
				Quantity:  tc.quantity,
				UnitPrice: decimal.RequireFromString(tc.price),
			}
			got := item.ComputeLineTotal()
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"%s × %d: esperado %s, got %s", tc.price, tc.quantity, tc.want, got)
		})
	}
}

func TestRecalcTotals_SumaLineasTruncadas(t *testing.T) {
	inv := &entity.Invoice{
		Items: []*entity.InvoiceItem{
			{Quantity: 3, UnitPrice: decimal.RequireFromString("3.333")}, // 9.99
			{Quantity: 2, UnitPrice: decimal.RequireFromString("1.005")}, // 2.01
			{Quantity: 1, UnitPrice: decimal.RequireFromString("0.004")}, // 0.00
		},
	}
	inv.RecalcTotals()

	// Se trunca cada línea antes de sumar, no el total agregado.
	assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("12.00")), "got %s", inv.Subtotal)
	assert.True(t, inv.Total.Equal(inv.Subtotal))
	assert.True(t, inv.Items[0].LineTotal.Equal(decimal.RequireFromString("9.99")))
}

func TestRecalcTotals_IdempotenteSinCambios(t *testing.T) {
	inv := &entity.Invoice{
		Items: []*entity.InvoiceItem{
			{Quantity: 7, UnitPrice: decimal.RequireFromString("19.999")},
		},
	}
	inv.RecalcTotals()
	first := inv.Total

	inv.RecalcTotals()
	assert.True(t, inv.Total.Equal(first), "recalcular sin cambios debe dar el mismo total")
}

func TestRecalcTotals_SinLineas(t *testing.T) {
	inv := &entity.Invoice{}
	inv.RecalcTotals()
	assert.True(t, inv.Subtotal.IsZero())
	assert.True(t, inv.Total.IsZero())
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{entity.StatusDraft, entity.StatusPending, entity.StatusApproved, entity.StatusPaid} {
		assert.True(t, entity.IsValidStatus(s), s)
	}
	assert.False(t, entity.IsValidStatus("CANCELLED"))
	assert.False(t, entity.IsValidStatus(""))
}

func TestHasPendingModification(t *testing.T) {
	inv := &entity.Invoice{}
	assert.False(t, inv.HasPendingModification())

	now := time.Now()
	inv.ModificationRequestedAt = &now
	assert.True(t, inv.HasPendingModification())
}
