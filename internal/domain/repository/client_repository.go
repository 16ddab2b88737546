package repository

import "github.com/facturio/billing-api/internal/domain/entity"

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(client *entity.Client) error
	Update(client *entity.Client) error
	GetByID(tenantID, id string) (*entity.Client, error)
	ListByTenant(tenantID string, limit, offset int) ([]*entity.Client, error)
	// SearchByName busca por nombre normalizado (sin acentos, minúsculas).
	SearchByName(tenantID, name string, limit, offset int) ([]*entity.Client, error)
}
