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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, sku, name, description, price, quantity, min_quantity, created_at, updated_at`

// Create persiste un producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.TenantID, product.SKU, product.Name,
		nullIfEmpty(product.Description), product.Price, product.Quantity,
		product.MinQuantity, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku duplicado: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update edita los campos de catálogo. La cantidad no se toca aquí: va solo
// por AdjustQuantity.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $3, description = $4, price = $5, min_quantity = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query,
		product.TenantID, product.ID, product.Name,
		nullIfEmpty(product.Description), product.Price, product.MinQuantity,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// GetByID obtiene un producto del tenant. Otro tenant = nil.
func (r *ProductRepo) GetByID(tenantID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	var p entity.Product
	var description *string
	err := r.q.QueryRow(context.Background(), query, tenantID, id).Scan(
		&p.ID, &p.TenantID, &p.SKU, &p.Name, &description, &p.Price,
		&p.Quantity, &p.MinQuantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if description != nil {
		p.Description = *description
	}
	return &p, nil
}

// AdjustQuantity aplica un incremento/decremento atómico sobre la cantidad
// del producto. Un único UPDATE relativo evita lost updates entre facturas
// concurrentes sobre el mismo producto. La cantidad puede quedar negativa.
func (r *ProductRepo) AdjustQuantity(tenantID, productID string, delta int64) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE products SET quantity = quantity + $3, updated_at = now()
		 WHERE tenant_id = $1 AND id = $2`,
		tenantID, productID, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ListByTenant lista los productos del tenant ordenados por SKU.
func (r *ProductRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE tenant_id = $1
		ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListBelowMinimum lista productos con quantity <= min_quantity.
func (r *ProductRepo) ListBelowMinimum(tenantID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE tenant_id = $1 AND quantity <= min_quantity
		ORDER BY sku`
	rows, err := r.q.Query(context.Background(), query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list below minimum: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var description *string
		if err := rows.Scan(&p.ID, &p.TenantID, &p.SKU, &p.Name, &description,
			&p.Price, &p.Quantity, &p.MinQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if description != nil {
			p.Description = *description
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
