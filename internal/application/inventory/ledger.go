package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

// StockLedger registra movimientos de inventario como entradas inmutables y
// mantiene en lockstep la cantidad materializada del producto. La cantidad
// puede quedar negativa: la prevención de sobreventa es política de la capa
// superior, no del libro.
type StockLedger struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
	productRepo  repository.ProductRepository
}

// NewStockLedger construye el libro de inventario. movementRepo y productRepo
// van atados al pool (lecturas fuera de transacción).
func NewStockLedger(txRunner TxRunner, movementRepo repository.StockMovementRepository, productRepo repository.ProductRepository) *StockLedger {
	return &StockLedger{txRunner: txRunner, movementRepo: movementRepo, productRepo: productRepo}
}

// PostMovementInTx añade una entrada al libro y ajusta atómicamente la
// cantidad del producto usando los repositorios del caller (misma
// transacción). El ajuste usa UPDATE ... quantity = quantity + delta, nunca
// leer-modificar-escribir. Devuelve ErrProductNotFound si el producto no
// existe o no pertenece al tenant.
func (l *StockLedger) PostMovementInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	tenantID, productID string,
	invoiceID *string,
	movementType string,
	quantityDelta int64,
	actorID string,
	at time.Time,
) error {
	if quantityDelta == 0 {
		return domain.ErrInvalidInput
	}
	switch movementType {
	case entity.MovementTypeSaleDeduction, entity.MovementTypeSaleReversal, entity.MovementTypeAdjustment:
	default:
		return domain.ErrInvalidInput
	}
	if err := productRepo.AdjustQuantity(tenantID, productID, quantityDelta); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ProductID:     productID,
		InvoiceID:     invoiceID,
		Type:          movementType,
		QuantityDelta: quantityDelta,
		ActorID:       actorID,
		CreatedAt:     at,
	}
	return movRepo.Create(mov)
}

// RegisterAdjustment registra un ajuste manual (delta positivo o negativo)
// en su propia transacción.
func (l *StockLedger) RegisterAdjustment(ctx context.Context, tenantID, actorID, productID string, delta int64) error {
	if delta == 0 {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return l.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		return l.PostMovementInTx(movRepo, productRepo, tenantID, productID, nil, entity.MovementTypeAdjustment, delta, actorID, now)
	})
}

// MovementsFor devuelve los movimientos ligados a una factura en orden de
// creación. La reversión de stock calcula desde aquí las cantidades exactas
// a restaurar, no desde las líneas actuales de la factura.
func (l *StockLedger) MovementsFor(ctx context.Context, tenantID, invoiceID string) ([]*entity.StockMovement, error) {
	return l.movementRepo.ListByInvoice(tenantID, invoiceID)
}

// MovementsForProduct devuelve el historial de movimientos de un producto.
func (l *StockLedger) MovementsForProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return l.movementRepo.ListByProduct(tenantID, productID, limit, offset)
}

// CurrentQuantity devuelve la cantidad materializada del producto (contador
// mantenido por los movimientos, conciliado con el libro).
func (l *StockLedger) CurrentQuantity(ctx context.Context, tenantID, productID string) (int64, error) {
	product, err := l.productRepo.GetByID(tenantID, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrProductNotFound
	}
	return product.Quantity, nil
}
