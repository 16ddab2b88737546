package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
	"github.com/facturio/billing-api/pkg/normalize"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, tenant_id, name, tax_id, email, phone, address, created_at, updated_at`

// Create persiste un cliente.
func (r *ClientRepo) Create(client *entity.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	query := `
		INSERT INTO clients (` + clientColumns + `, name_folded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.TenantID, client.Name, client.TaxID,
		nullIfEmpty(client.Email), nullIfEmpty(client.Phone), nullIfEmpty(client.Address),
		client.CreatedAt, client.UpdatedAt, normalize.Fold(client.Name),
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update edita los datos de contacto del cliente.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $3, tax_id = $4, email = $5, phone = $6, address = $7, updated_at = $8, name_folded = $9
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		client.TenantID, client.ID, client.Name, client.TaxID,
		nullIfEmpty(client.Email), nullIfEmpty(client.Phone), nullIfEmpty(client.Address),
		client.UpdatedAt, normalize.Fold(client.Name),
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente del tenant. Otro tenant = nil.
func (r *ClientRepo) GetByID(tenantID, id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE tenant_id = $1 AND id = $2`
	var c entity.Client
	var email, phone, address *string
	err := r.q.QueryRow(context.Background(), query, tenantID, id).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.TaxID, &email, &phone, &address,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	assignIfSet(&c.Email, email)
	assignIfSet(&c.Phone, phone)
	assignIfSet(&c.Address, address)
	return &c, nil
}

// ListByTenant lista clientes del tenant ordenados por nombre.
func (r *ClientRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + `
		FROM clients WHERE tenant_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	return scanClients(rows)
}

// SearchByName busca por nombre normalizado (columna name_folded mantenida
// por la aplicación, sin acentos y en minúsculas).
func (r *ClientRepo) SearchByName(tenantID, name string, limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + `
		FROM clients WHERE tenant_id = $1 AND name_folded LIKE '%' || $2 || '%'
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, tenantID, name, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	defer rows.Close()
	return scanClients(rows)
}

func scanClients(rows pgx.Rows) ([]*entity.Client, error) {
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		var email, phone, address *string
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.TaxID,
			&email, &phone, &address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		assignIfSet(&c.Email, email)
		assignIfSet(&c.Phone, phone)
		assignIfSet(&c.Address, address)
		list = append(list, &c)
	}
	return list, rows.Err()
}

func assignIfSet(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
