package repository

import "github.com/facturio/billing-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	Update(product *entity.Product) error
	GetByID(tenantID, id string) (*entity.Product, error)
	// AdjustQuantity aplica un incremento/decremento atómico sobre
	// products.quantity (UPDATE ... SET quantity = quantity + delta), nunca
	// leer-modificar-escribir en la aplicación. Devuelve ErrProductNotFound
	// si el producto no existe o no pertenece al tenant.
	AdjustQuantity(tenantID, productID string, delta int64) error
	ListByTenant(tenantID string, limit, offset int) ([]*entity.Product, error)
	// ListBelowMinimum lista productos con quantity <= min_quantity.
	ListBelowMinimum(tenantID string) ([]*entity.Product, error)
}
