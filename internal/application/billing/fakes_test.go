package billing_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria para los casos de uso de facturación. Imitan la semántica
// de los adaptadores de Postgres: filtrado por tenant (otro tenant = nil),
// ajuste relativo de cantidades y movimientos inmutables.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu         sync.Mutex
	invoices   map[string]*entity.Invoice
	items      map[string][]*entity.InvoiceItem
	products   map[string]*entity.Product
	clients    map[string]*entity.Client
	movements  []*entity.StockMovement
	lastNumber map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		invoices:   make(map[string]*entity.Invoice),
		items:      make(map[string][]*entity.InvoiceItem),
		products:   make(map[string]*entity.Product),
		clients:    make(map[string]*entity.Client),
		lastNumber: make(map[string]int64),
	}
}

func (s *fakeStore) seedProduct(tenantID, id string, quantity int64) *entity.Product {
	p := &entity.Product{ID: id, TenantID: tenantID, SKU: "SKU-" + id, Name: "Producto " + id, Quantity: quantity}
	s.products[id] = p
	return p
}

func (s *fakeStore) seedClient(tenantID, id, name string) *entity.Client {
	c := &entity.Client{ID: id, TenantID: tenantID, Name: name}
	s.clients[id] = c
	return c
}

func (s *fakeStore) seedInvoice(inv *entity.Invoice, items ...*entity.InvoiceItem) *entity.Invoice {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	for _, it := range items {
		it.InvoiceID = inv.ID
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
	}
	s.invoices[inv.ID] = inv
	s.items[inv.ID] = items
	return inv
}

func (s *fakeStore) productQuantity(id string) int64 {
	return s.products[id].Quantity
}

func (s *fakeStore) movementsByInvoice(invoiceID string) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.InvoiceID != nil && *m.InvoiceID == invoiceID {
			out = append(out, m)
		}
	}
	return out
}

// ── InvoiceRepository ─────────────────────────────────────────────────────────

type fakeInvoiceRepo struct{ s *fakeStore }

var _ repository.InvoiceRepository = (*fakeInvoiceRepo)(nil)

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	r.s.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	r.s.items[item.InvoiceID] = append(r.s.items[item.InvoiceID], item)
	return nil
}

func (r *fakeInvoiceRepo) ReplaceItems(invoiceID string, items []*entity.InvoiceItem) error {
	r.s.items[invoiceID] = items
	return nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(tenantID, id string) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok || inv.TenantID != tenantID {
		return nil, nil
	}
	return copyInvoice(inv), nil
}

func (r *fakeInvoiceRepo) GetByIDForUpdate(tenantID, id string) (*entity.Invoice, error) {
	return r.GetByID(tenantID, id)
}

func (r *fakeInvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	return r.s.items[invoiceID], nil
}

func (r *fakeInvoiceRepo) NextNumber(tenantID string) (int64, error) {
	r.s.lastNumber[tenantID]++
	return r.s.lastNumber[tenantID], nil
}

func (r *fakeInvoiceRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.TenantID == tenantID {
			out = append(out, copyInvoice(inv))
		}
	}
	return out, nil
}

// copyInvoice copia la cabecera para emular rollback: las mutaciones sobre la
// copia no tocan el estado guardado hasta que Update confirma.
func copyInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.Items = nil
	return &c
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *fakeStore }

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(tenantID, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProductRepo) AdjustQuantity(tenantID, productID string, delta int64) error {
	p, ok := r.s.products[productID]
	if !ok || p.TenantID != tenantID {
		return domain.ErrProductNotFound
	}
	p.Quantity += delta
	return nil
}

func (r *fakeProductRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListBelowMinimum(tenantID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.TenantID == tenantID && p.BelowMinimum() {
			out = append(out, p)
		}
	}
	return out, nil
}

// ── StockMovementRepository ───────────────────────────────────────────────────

type fakeMovementRepo struct{ s *fakeStore }

var _ repository.StockMovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r *fakeMovementRepo) ListByInvoice(tenantID, invoiceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID == tenantID && m.InvoiceID != nil && *m.InvoiceID == invoiceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByProduct(tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── ClientRepository ──────────────────────────────────────────────────────────

type fakeClientRepo struct{ s *fakeStore }

var _ repository.ClientRepository = (*fakeClientRepo)(nil)

func (r *fakeClientRepo) Create(c *entity.Client) error {
	r.s.clients[c.ID] = c
	return nil
}

func (r *fakeClientRepo) Update(c *entity.Client) error {
	r.s.clients[c.ID] = c
	return nil
}

func (r *fakeClientRepo) GetByID(tenantID, id string) (*entity.Client, error) {
	c, ok := r.s.clients[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	return c, nil
}

func (r *fakeClientRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.s.clients {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) SearchByName(tenantID, name string, limit, offset int) ([]*entity.Client, error) {
	return r.ListByTenant(tenantID, limit, offset)
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// fakeTxRunner ejecuta fn directamente contra el store. conflicts simula
// fallos de serialización: las primeras n llamadas devuelven ErrConflict sin
// ejecutar fn.
type fakeTxRunner struct {
	s         *fakeStore
	conflicts int
	calls     int
}

func (t *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.calls++
	if t.conflicts > 0 {
		t.conflicts--
		return fmt.Errorf("%w: could not serialize access", domain.ErrConflict)
	}
	return fn(&fakeInvoiceRepo{t.s}, &fakeMovementRepo{t.s}, &fakeProductRepo{t.s})
}
