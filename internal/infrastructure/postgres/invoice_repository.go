package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, tenant_id, client_id, number, doc_type, status,
	subtotal, total, approved_at, paid_at, stock_deducted_at,
	modification_requested_at, created_by, created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.TenantID, invoice.ClientID, invoice.Number,
		invoice.DocType, invoice.Status, invoice.Subtotal, invoice.Total,
		invoice.ApprovedAt, invoice.PaidAt, invoice.StockDeductedAt,
		invoice.ModificationRequestedAt, invoice.CreatedBy,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de factura duplicado: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, description, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductID, item.Description,
		item.Quantity, item.UnitPrice, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// ReplaceItems borra y reinserta las líneas de una factura (edición en DRAFT).
func (r *InvoiceRepo) ReplaceItems(invoiceID string, items []*entity.InvoiceItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	for _, item := range items {
		item.InvoiceID = invoiceID
		if err := r.CreateItem(item); err != nil {
			return err
		}
	}
	return nil
}

// Update persiste estado, totales y marcas del ciclo de vida.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status                    = $2,
		    subtotal                  = $3,
		    total                     = $4,
		    approved_at               = $5,
		    paid_at                   = $6,
		    stock_deducted_at         = $7,
		    modification_requested_at = $8,
		    updated_at                = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Status, invoice.Subtotal, invoice.Total,
		invoice.ApprovedAt, invoice.PaidAt, invoice.StockDeductedAt,
		invoice.ModificationRequestedAt, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID dentro del tenant. Otro tenant = nil.
func (r *InvoiceRepo) GetByID(tenantID, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND id = $2`
	return r.getOne(query, tenantID, id)
}

// GetByIDForUpdate obtiene la factura y bloquea su fila (SELECT FOR UPDATE)
// para la secuencia guarda-entonces-mutación del motor de estados.
func (r *InvoiceRepo) GetByIDForUpdate(tenantID, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(query, tenantID, id)
}

func (r *InvoiceRepo) getOne(query string, args ...any) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&inv.ID, &inv.TenantID, &inv.ClientID, &inv.Number, &inv.DocType,
		&inv.Status, &inv.Subtotal, &inv.Total, &inv.ApprovedAt, &inv.PaidAt,
		&inv.StockDeductedAt, &inv.ModificationRequestedAt, &inv.CreatedBy,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetItems obtiene todas las líneas de una factura en orden de inserción.
func (r *InvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, description, quantity, unit_price, line_total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// NextNumber devuelve el siguiente consecutivo del tenant. Llamar dentro de
// la transacción de creación: el UNIQUE (tenant_id, number) resuelve carreras.
func (r *InvoiceRepo) NextNumber(tenantID string) (int64, error) {
	var next int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(number), 0) + 1 FROM invoices WHERE tenant_id = $1`,
		tenantID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return next, nil
}

// ListByTenant lista las facturas del tenant, más recientes primero.
func (r *InvoiceRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices WHERE tenant_id = $1
		ORDER BY number DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.TenantID, &inv.ClientID, &inv.Number, &inv.DocType,
			&inv.Status, &inv.Subtotal, &inv.Total, &inv.ApprovedAt, &inv.PaidAt,
			&inv.StockDeductedAt, &inv.ModificationRequestedAt, &inv.CreatedBy,
			&inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
