package repository

import "github.com/facturio/billing-api/internal/domain/entity"

// TenantRepository define el puerto de persistencia para tenants.
type TenantRepository interface {
	Create(tenant *entity.Tenant) error
	GetByID(id string) (*entity.Tenant, error)
	List(limit, offset int) ([]*entity.Tenant, error)
}
