package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/billing-api/internal/application/inventory"
	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

const testTenant = "tenant-a"

// ── Dobles en memoria ─────────────────────────────────────────────────────────

type memProductRepo struct {
	products map[string]*entity.Product
}

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }

func (r *memProductRepo) GetByID(tenantID, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return p, nil
}

func (r *memProductRepo) AdjustQuantity(tenantID, productID string, delta int64) error {
	p, ok := r.products[productID]
	if !ok || p.TenantID != tenantID {
		return domain.ErrProductNotFound
	}
	p.Quantity += delta
	return nil
}

func (r *memProductRepo) ListByTenant(string, int, int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) ListBelowMinimum(string) ([]*entity.Product, error)       { return nil, nil }

type memMovementRepo struct {
	movements []*entity.StockMovement
}

var _ repository.StockMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *memMovementRepo) ListByInvoice(tenantID, invoiceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.InvoiceID != nil && *m.InvoiceID == invoiceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByProduct(tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

// passthroughTxRunner ejecuta fn directamente (sin transacción real).
type passthroughTxRunner struct {
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
}

func (t *passthroughTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(t.movRepo, t.productRepo)
}

func newLedger() (*inventory.StockLedger, *memMovementRepo, *memProductRepo) {
	movRepo := &memMovementRepo{}
	productRepo := &memProductRepo{products: make(map[string]*entity.Product)}
	tx := &passthroughTxRunner{movRepo: movRepo, productRepo: productRepo}
	return inventory.NewStockLedger(tx, movRepo, productRepo), movRepo, productRepo
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestPostMovement_ValidaDeltaYTipo(t *testing.T) {
	ledger, movRepo, productRepo := newLedger()
	productRepo.products["prod-1"] = &entity.Product{ID: "prod-1", TenantID: testTenant, Quantity: 10}

	err := ledger.PostMovementInTx(movRepo, productRepo, testTenant, "prod-1", nil,
		entity.MovementTypeAdjustment, 0, "actor", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "delta cero es inválido")

	err = ledger.PostMovementInTx(movRepo, productRepo, testTenant, "prod-1", nil,
		"transferencia", 5, "actor", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido es inválido")

	assert.Empty(t, movRepo.movements)
	assert.EqualValues(t, 10, productRepo.products["prod-1"].Quantity)
}

func TestPostMovement_ProductoInexistente(t *testing.T) {
	ledger, movRepo, productRepo := newLedger()

	err := ledger.PostMovementInTx(movRepo, productRepo, testTenant, "no-existe", nil,
		entity.MovementTypeAdjustment, 5, "actor", time.Now())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, movRepo.movements, "sin ajuste no debe quedar asiento")
}

func TestPostMovement_AjustaYAsientaEnLockstep(t *testing.T) {
	ledger, movRepo, productRepo := newLedger()
	productRepo.products["prod-1"] = &entity.Product{ID: "prod-1", TenantID: testTenant, Quantity: 100}
	invoiceID := "inv-1"

	err := ledger.PostMovementInTx(movRepo, productRepo, testTenant, "prod-1", &invoiceID,
		entity.MovementTypeSaleDeduction, -10, "actor", time.Now())
	require.NoError(t, err)

	assert.EqualValues(t, 90, productRepo.products["prod-1"].Quantity)
	require.Len(t, movRepo.movements, 1)
	m := movRepo.movements[0]
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, entity.MovementTypeSaleDeduction, m.Type)
	assert.EqualValues(t, -10, m.QuantityDelta)
	assert.Equal(t, "inv-1", *m.InvoiceID)
}

func TestPostMovement_PermiteStockNegativo(t *testing.T) {
	// La prevención de sobreventa es política de la capa superior, no del libro.
	ledger, movRepo, productRepo := newLedger()
	productRepo.products["prod-1"] = &entity.Product{ID: "prod-1", TenantID: testTenant, Quantity: 3}

	err := ledger.PostMovementInTx(movRepo, productRepo, testTenant, "prod-1", nil,
		entity.MovementTypeAdjustment, -10, "actor", time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, -7, productRepo.products["prod-1"].Quantity)
}

func TestRegisterAdjustment_AjusteManual(t *testing.T) {
	ledger, movRepo, productRepo := newLedger()
	productRepo.products["prod-1"] = &entity.Product{ID: "prod-1", TenantID: testTenant, Quantity: 5}
	ctx := context.Background()

	require.NoError(t, ledger.RegisterAdjustment(ctx, testTenant, "actor", "prod-1", 20))
	assert.EqualValues(t, 25, productRepo.products["prod-1"].Quantity)

	require.Len(t, movRepo.movements, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, movRepo.movements[0].Type)
	assert.Nil(t, movRepo.movements[0].InvoiceID, "un ajuste manual no referencia factura")

	assert.ErrorIs(t, ledger.RegisterAdjustment(ctx, testTenant, "actor", "prod-1", 0),
		domain.ErrInvalidInput)
}

func TestCurrentQuantity(t *testing.T) {
	ledger, _, productRepo := newLedger()
	productRepo.products["prod-1"] = &entity.Product{ID: "prod-1", TenantID: testTenant, Quantity: 42}
	ctx := context.Background()

	qty, err := ledger.CurrentQuantity(ctx, testTenant, "prod-1")
	require.NoError(t, err)
	assert.EqualValues(t, 42, qty)

	_, err = ledger.CurrentQuantity(ctx, testTenant, "no-existe")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = ledger.CurrentQuantity(ctx, "otro-tenant", "prod-1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound,
		"el producto de otro tenant se comporta como inexistente")
}
