package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/billing-api/internal/application/billing"
	"github.com/facturio/billing-api/internal/application/dto"
	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
)

func newInvoiceUC(s *fakeStore) *billing.InvoiceUseCase {
	return billing.NewInvoiceUseCase(
		&fakeTxRunner{s: s},
		&fakeInvoiceRepo{s},
		&fakeClientRepo{s},
		&fakeProductRepo{s},
	)
}

func TestCreateDraft_AsignaConsecutivoPorTenant(t *testing.T) {
	s := newFakeStore()
	s.seedClient(testTenant, "client-1", "Acme SL")
	s.seedClient(testOtherTenant, "client-2", "Otra SA")
	uc := newInvoiceUC(s)
	ctx := context.Background()

	in := dto.CreateInvoiceRequest{
		ClientID: "client-1",
		DocType:  entity.DocTypeInvoice,
		Items: []dto.InvoiceItemRequest{
			{Description: "Soporte mensual", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
	}

	first, err := uc.CreateDraft(ctx, testTenant, testAdmin, in)
	require.NoError(t, err)
	second, err := uc.CreateDraft(ctx, testTenant, testAdmin, in)
	require.NoError(t, err)

	assert.EqualValues(t, 1, first.Number)
	assert.EqualValues(t, 2, second.Number)
	assert.Equal(t, entity.StatusDraft, first.Status)
	assert.Equal(t, "Acme SL", first.ClientName)

	// El consecutivo del otro tenant arranca en 1, independiente
	other, err := uc.CreateDraft(ctx, testOtherTenant, testAdmin, dto.CreateInvoiceRequest{
		ClientID: "client-2",
		DocType:  entity.DocTypeInvoice,
		Items: []dto.InvoiceItemRequest{
			{Description: "Soporte", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, other.Number)
}

func TestCreateDraft_TotalesTruncadosPorLinea(t *testing.T) {
	s := newFakeStore()
	s.seedClient(testTenant, "client-1", "Acme SL")
	uc := newInvoiceUC(s)

	out, err := uc.CreateDraft(context.Background(), testTenant, testAdmin, dto.CreateInvoiceRequest{
		ClientID: "client-1",
		DocType:  entity.DocTypeInvoice,
		Items: []dto.InvoiceItemRequest{
			{Description: "A", Quantity: 3, UnitPrice: decimal.RequireFromString("3.333")},
			{Description: "B", Quantity: 1, UnitPrice: decimal.RequireFromString("0.009")},
		},
	})
	require.NoError(t, err)

	// 9.999 → 9.99 y 0.009 → 0.00; el subtotal suma líneas ya truncadas
	assert.True(t, out.Subtotal.Equal(decimal.RequireFromString("9.99")), "got %s", out.Subtotal)
	assert.True(t, out.Total.Equal(out.Subtotal))
}

func TestCreateDraft_Validaciones(t *testing.T) {
	s := newFakeStore()
	s.seedClient(testTenant, "client-1", "Acme SL")
	s.seedProduct(testOtherTenant, "prod-ajeno", 10)
	uc := newInvoiceUC(s)
	ctx := context.Background()

	base := func() dto.CreateInvoiceRequest {
		return dto.CreateInvoiceRequest{
			ClientID: "client-1",
			DocType:  entity.DocTypeInvoice,
			Items: []dto.InvoiceItemRequest{
				{Description: "Item", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
			},
		}
	}

	// Cliente inexistente
	in := base()
	in.ClientID = "no-existe"
	_, err := uc.CreateDraft(ctx, testTenant, testAdmin, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Tipo de documento desconocido
	in = base()
	in.DocType = "nota-credito"
	_, err = uc.CreateDraft(ctx, testTenant, testAdmin, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin líneas
	in = base()
	in.Items = nil
	_, err = uc.CreateDraft(ctx, testTenant, testAdmin, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cantidad no positiva
	in = base()
	in.Items[0].Quantity = 0
	_, err = uc.CreateDraft(ctx, testTenant, testAdmin, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Línea de texto libre sin descripción
	in = base()
	in.Items[0].Description = ""
	_, err = uc.CreateDraft(ctx, testTenant, testAdmin, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Producto de otro tenant: inexistente para este
	in = base()
	in.Items[0].ProductID = "prod-ajeno"
	_, err = uc.CreateDraft(ctx, testTenant, testAdmin, in)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCreateDraft_PrecioPorDefectoDelCatalogo(t *testing.T) {
	s := newFakeStore()
	s.seedClient(testTenant, "client-1", "Acme SL")
	p := s.seedProduct(testTenant, "prod-1", 50)
	p.Price = decimal.RequireFromString("12.50")
	uc := newInvoiceUC(s)

	out, err := uc.CreateDraft(context.Background(), testTenant, testAdmin, dto.CreateInvoiceRequest{
		ClientID: "client-1",
		DocType:  entity.DocTypeInvoice,
		Items: []dto.InvoiceItemRequest{
			{ProductID: "prod-1", Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.50")),
		"sin precio explícito debe usarse el del catálogo")
	assert.Equal(t, "Producto prod-1", out.Items[0].Description,
		"sin descripción debe usarse el nombre del producto")
	assert.True(t, out.Total.Equal(decimal.RequireFromString("25")))
}

func TestUpdateItems_SoloEnBorrador(t *testing.T) {
	s := newFakeStore()
	uc := newInvoiceUC(s)
	ctx := context.Background()

	draft := s.seedInvoice(
		&entity.Invoice{TenantID: testTenant, DocType: entity.DocTypeInvoice, Status: entity.StatusDraft},
		&entity.InvoiceItem{Description: "Original", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
	)
	pending := s.seedInvoice(
		&entity.Invoice{TenantID: testTenant, DocType: entity.DocTypeInvoice, Status: entity.StatusPending},
	)

	in := dto.UpdateItemsRequest{Items: []dto.InvoiceItemRequest{
		{Description: "Reemplazo", Quantity: 3, UnitPrice: decimal.NewFromInt(7)},
	}}

	out, err := uc.UpdateItems(ctx, testTenant, draft.ID, in)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Reemplazo", out.Items[0].Description)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(21)))

	_, err = uc.UpdateItems(ctx, testTenant, pending.ID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"las líneas solo se editan en DRAFT")
}
