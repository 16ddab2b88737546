package inventory

import (
	"context"

	"github.com/facturio/billing-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de
// inventario atados a ella. Commit si fn retorna nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
