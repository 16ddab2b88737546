package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/facturio/billing-api/internal/application/dto"
	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

// TenantUseCase casos de uso de tenants (provisioning básico).
type TenantUseCase struct {
	tenantRepo repository.TenantRepository
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase(tenantRepo repository.TenantRepository) *TenantUseCase {
	return &TenantUseCase{tenantRepo: tenantRepo}
}

// Create crea un tenant activo.
func (uc *TenantUseCase) Create(ctx context.Context, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.tenantRepo.Create(tenant); err != nil {
		return nil, err
	}
	return toTenantResponse(tenant), nil
}

// Get obtiene un tenant por ID.
func (uc *TenantUseCase) Get(ctx context.Context, id string) (*dto.TenantResponse, error) {
	tenant, err := uc.tenantRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	return toTenantResponse(tenant), nil
}

// List lista tenants.
func (uc *TenantUseCase) List(ctx context.Context, limit, offset int) ([]*dto.TenantResponse, error) {
	tenants, err := uc.tenantRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toTenantResponse(t))
	}
	return out, nil
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{ID: t.ID, Name: t.Name, TaxID: t.TaxID, Status: t.Status}
}
