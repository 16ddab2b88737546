package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de inventario sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: las entradas son inmutables.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, tenant_id, product_id, invoice_id, type, quantity_delta, actor_id, created_at`

// Create persiste una entrada del libro.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.TenantID, movement.ProductID, movement.InvoiceID,
		movement.Type, movement.QuantityDelta, nullIfEmpty(movement.ActorID),
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByInvoice devuelve los movimientos de una factura en orden de creación.
func (r *StockMovementRepo) ListByInvoice(tenantID, invoiceID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE tenant_id = $1 AND invoice_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by invoice: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByProduct devuelve el historial de un producto, más reciente primero.
func (r *StockMovementRepo) ListByProduct(tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE tenant_id = $1 AND product_id = $2
		ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, tenantID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var actorID *string
		if err := rows.Scan(&m.ID, &m.TenantID, &m.ProductID, &m.InvoiceID,
			&m.Type, &m.QuantityDelta, &actorID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if actorID != nil {
			m.ActorID = *actorID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
