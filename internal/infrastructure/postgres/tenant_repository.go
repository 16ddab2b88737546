package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación de TenantRepository (usable con pool o tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

const tenantColumns = `id, name, tax_id, address, phone, email, status, created_at, updated_at`

// Create persiste un tenant.
func (r *TenantRepo) Create(tenant *entity.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = uuid.New().String()
	}
	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		tenant.ID, tenant.Name, tenant.TaxID,
		nullIfEmpty(tenant.Address), nullIfEmpty(tenant.Phone), nullIfEmpty(tenant.Email),
		tenant.Status, tenant.CreatedAt, tenant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por ID.
func (r *TenantRepo) GetByID(id string) (*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	var t entity.Tenant
	var address, phone, email *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.Name, &t.TaxID, &address, &phone, &email,
		&t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	assignIfSet(&t.Address, address)
	assignIfSet(&t.Phone, phone)
	assignIfSet(&t.Email, email)
	return &t, nil
}

// List lista tenants por nombre.
func (r *TenantRepo) List(limit, offset int) ([]*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tenant
	for rows.Next() {
		var t entity.Tenant
		var address, phone, email *string
		if err := rows.Scan(&t.ID, &t.Name, &t.TaxID, &address, &phone, &email,
			&t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		assignIfSet(&t.Address, address)
		assignIfSet(&t.Phone, phone)
		assignIfSet(&t.Email, email)
		list = append(list, &t)
	}
	return list, rows.Err()
}
