package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/facturio/billing-api/internal/application/dto"
	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
	"github.com/facturio/billing-api/pkg/normalize"
)

// ClientUseCase casos de uso de clientes (receptores de facturas).
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// Create crea un cliente del tenant.
func (uc *ClientUseCase) Create(ctx context.Context, tenantID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes; con name busca por nombre normalizado (sin acentos).
func (uc *ClientUseCase) List(ctx context.Context, tenantID, name string, limit, offset int) ([]*dto.ClientResponse, error) {
	var (
		clients []*entity.Client
		err     error
	)
	if name != "" {
		clients, err = uc.clientRepo.SearchByName(tenantID, normalize.Fold(name), limit, offset)
	} else {
		clients, err = uc.clientRepo.ListByTenant(tenantID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Get obtiene un cliente por ID.
func (uc *ClientUseCase) Get(ctx context.Context, tenantID, id string) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(client), nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:       c.ID,
		TenantID: c.TenantID,
		Name:     c.Name,
		TaxID:    c.TaxID,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
	}
}
