package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturio/billing-api/internal/application/dto"
	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos.
// La cantidad inicial se asienta como ajuste en el libro de inventario; las
// mutaciones posteriores van siempre por movimientos, nunca por este caso de
// uso.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	ledger      StockAdjuster
}

// StockAdjuster registra un ajuste manual de inventario (alta inicial).
type StockAdjuster interface {
	RegisterAdjustment(ctx context.Context, tenantID, actorID, productID string, delta int64) error
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, ledger StockAdjuster) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, ledger: ledger}
}

// Create crea un producto; si trae cantidad inicial la asienta como ajuste.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 || in.MinQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    0, // la cantidad entra por el libro, no por el INSERT
		MinQuantity: in.MinQuantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	if in.Quantity > 0 {
		if err := uc.ledger.RegisterAdjustment(ctx, tenantID, userID, product.ID, in.Quantity); err != nil {
			return nil, err
		}
		product.Quantity = in.Quantity
	}
	return toProductResponse(product), nil
}

// Update edita nombre, descripción, precio y umbral mínimo.
func (uc *ProductUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	product.Description = in.Description
	if !in.Price.IsZero() {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = in.Price
	}
	if in.MinQuantity >= 0 {
		product.MinQuantity = in.MinQuantity
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Get obtiene un producto por ID.
func (uc *ProductUseCase) Get(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista los productos del tenant.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.productRepo.ListByTenant(tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// ListBelowMinimum reporta productos en o por debajo de su umbral de stock.
func (uc *ProductUseCase) ListBelowMinimum(ctx context.Context, tenantID string) ([]*dto.ProductResponse, error) {
	products, err := uc.productRepo.ListBelowMinimum(tenantID)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

func toProductResponses(products []*entity.Product) []*dto.ProductResponse {
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		BelowMin:    p.BelowMinimum(),
		CreatedAt:   p.CreatedAt,
	}
}
