package billing

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/facturio/billing-api/internal/application/dto"
	"github.com/facturio/billing-api/internal/domain"
	"github.com/facturio/billing-api/internal/domain/entity"
	"github.com/facturio/billing-api/internal/domain/repository"
)

// Nombres de operación para errores de transición y logs.
const (
	opSubmit              = "submit"
	opValidateProforma    = "validate-proforma"
	opApprove             = "approve"
	opMarkPaid            = "mark-paid"
	opMarkUnpaid          = "mark-unpaid"
	opRequestModification = "request-modification"
	opApproveModification = "approve-modification"
	opRecalcTotals        = "recalc-totals"
)

// Backoff del reintento único ante conflicto de serialización.
const conflictRetryBackoff = 50 * time.Millisecond

// WorkflowEngine ejecuta las transiciones del ciclo de vida de facturas y
// proformas. Cada operación corre como unidad atómica: la fila de la factura
// se bloquea (SELECT FOR UPDATE), se evalúa la guarda, se muta el estado y
// se asientan los movimientos de inventario en la misma transacción.
//
// La autorización por identidad (¿puede este actor pedir esta transición?)
// es responsabilidad de la capa de entrada; el motor revalida solamente
// guardas estructurales (tipo de documento y estado actual).
type WorkflowEngine struct {
	txRunner TxRunner
	ledger   StockLedger
	log      zerolog.Logger
}

// NewWorkflowEngine construye el motor de estados.
func NewWorkflowEngine(txRunner TxRunner, ledger StockLedger, log zerolog.Logger) *WorkflowEngine {
	return &WorkflowEngine{txRunner: txRunner, ledger: ledger, log: log}
}

// runWithRetry ejecuta la transacción y, si falla por conflicto de
// serialización o bloqueo (ErrConflict), reintenta una única vez tras un
// backoff. Un segundo conflicto se devuelve al caller como transitorio.
func (e *WorkflowEngine) runWithRetry(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	err := e.txRunner.RunBilling(ctx, fn)
	if errors.Is(err, domain.ErrConflict) {
		select {
		case <-time.After(conflictRetryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		err = e.txRunner.RunBilling(ctx, fn)
	}
	return err
}

// transition carga la factura con bloqueo de fila, aplica la mutación y
// persiste. apply recibe la factura con sus líneas cargadas y los repos de la
// transacción para asentar movimientos.
func (e *WorkflowEngine) transition(
	ctx context.Context,
	tenantID, invoiceID, actorID, op string,
	apply func(inv *entity.Invoice, movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error,
) (*dto.InvoiceResponse, error) {
	var result *entity.Invoice
	err := e.runWithRetry(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		inv, err := invoiceRepo.GetByIDForUpdate(tenantID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			// Un documento de otro tenant se comporta como inexistente:
			// nunca se filtra su existencia.
			return domain.ErrNotFound
		}
		items, err := invoiceRepo.GetItems(inv.ID)
		if err != nil {
			return err
		}
		inv.Items = items
		if err := apply(inv, movRepo, productRepo); err != nil {
			return err
		}
		inv.UpdatedAt = time.Now()
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Str("op", op).
		Str("tenant_id", tenantID).
		Str("invoice_id", invoiceID).
		Str("actor_id", actorID).
		Str("status", result.Status).
		Msg("transición aplicada")
	return toInvoiceResponse(result, ""), nil
}

// Submit envía un borrador de factura a aprobación (DRAFT → PENDING).
// Recalcula totales antes de salir de DRAFT; sin efecto sobre inventario.
func (e *WorkflowEngine) Submit(ctx context.Context, tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
	return e.transition(ctx, tenantID, invoiceID, actorID, opSubmit,
		func(inv *entity.Invoice, _ repository.StockMovementRepository, _ repository.ProductRepository) error {
			if inv.DocType != entity.DocTypeInvoice || inv.Status != entity.StatusDraft {
				return domain.NewTransitionError(opSubmit, inv.Status)
			}
			inv.RecalcTotals()
			inv.Status = entity.StatusPending
			return nil
		})
}

// ValidateProforma valida una proforma (DRAFT → APPROVED directo).
// Las proformas nunca descuentan inventario.
func (e *WorkflowEngine) ValidateProforma(ctx context.Context, tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
	return e.transition(ctx, tenantID, invoiceID, actorID, opValidateProforma,
		func(inv *entity.Invoice, _ repository.StockMovementRepository, _ repository.ProductRepository) error {
			if inv.DocType != entity.DocTypeProforma || inv.Status != entity.StatusDraft {
				return domain.NewTransitionError(opValidateProforma, inv.Status)
			}
			now := time.Now()
			inv.RecalcTotals()
			inv.Status = entity.StatusApproved
			inv.ApprovedAt = &now
			return nil
		})
}

// Approve aprueba una factura (PENDING → APPROVED). La aprobación es el
// punto donde el negocio compromete el inventario: si StockDeductedAt es nil
// se asienta un descuento por línea con producto y se marca la guarda de
// idempotencia; llamadas repetidas no vuelven a descontar.
func (e *WorkflowEngine) Approve(ctx context.Context, tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
	return e.transition(ctx, tenantID, invoiceID, actorID, opApprove,
		func(inv *entity.Invoice, movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
			if inv.DocType != entity.DocTypeInvoice || inv.Status != entity.StatusPending {
				return domain.NewTransitionError(opApprove, inv.Status)
			}
			now := time.Now()
			inv.Status = entity.StatusApproved
			inv.ApprovedAt = &now
			if inv.StockDeductedAt == nil {
				for _, item := range inv.Items {
					if item.ProductID == nil {
						continue // línea de texto libre, sin inventario
					}
					if err := e.ledger.PostMovementInTx(
						movRepo, productRepo,
						tenantID, *item.ProductID, &inv.ID,
						entity.MovementTypeSaleDeduction,
						-item.Quantity,
						actorID, now,
					); err != nil {
						return err
					}
				}
				inv.StockDeductedAt = &now
			}
			return nil
		})
}

// MarkPaid marca una factura aprobada como pagada (APPROVED → PAID).
// Liquidación puramente financiera: sin movimiento de inventario (ya se
// descontó en la aprobación).
func (e *WorkflowEngine) MarkPaid(ctx context.Context, tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
	return e.transition(ctx, tenantID, invoiceID, actorID, opMarkPaid,
		func(inv *entity.Invoice, _ repository.StockMovementRepository, _ repository.ProductRepository) error {
			if inv.DocType != entity.DocTypeInvoice || inv.Status != entity.StatusApproved {
				return domain.NewTransitionError(opMarkPaid, inv.Status)
			}
			now := time.Now()
			inv.Status = entity.StatusPaid
			inv.PaidAt = &now
			return nil
		})
}

// MarkUnpaid revierte el pago de una factura (PAID → PENDING). Si el
// inventario estaba descontado, restaura las cantidades exactas calculadas
// desde los movimientos registrados — no desde las líneas actuales, que
// pudieron haberse editado — y limpia la guarda de idempotencia.
func (e *WorkflowEngine) MarkUnpaid(ctx context.Context, tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
	return e.transition(ctx, tenantID, invoiceID, actorID, opMarkUnpaid,
		func(inv *entity.Invoice, movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
			if inv.DocType != entity.DocTypeInvoice || inv.Status != entity.StatusPaid {
				return domain.NewTransitionError(opMarkUnpaid, inv.Status)
			}
			now := time.Now()
			inv.Status = entity.StatusPending
			inv.PaidAt = nil
			if inv.StockDeductedAt != nil {
				movements, err := movRepo.ListByInvoice(tenantID, inv.ID)
				if err != nil {
					return err
				}
				for _, net := range netDeductions(movements) {
					if err := e.ledger.PostMovementInTx(
						movRepo, productRepo,
						tenantID, net.productID, &inv.ID,
						entity.MovementTypeSaleReversal,
						-net.delta,
						actorID, now,
					); err != nil {
						return err
					}
				}
				inv.StockDeductedAt = nil
			}
			return nil
		})
}

// RequestModification abre una solicitud de modificación sobre un documento
// aprobado o pagado. Sin efecto sobre estado ni inventario.
func (e *WorkflowEngine) RequestModification(ctx context.Context, tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
	return e.transition(ctx, tenantID, invoiceID, actorID, opRequestModification,
		func(inv *entity.Invoice, _ repository.StockMovementRepository, _ repository.ProductRepository) error {
			if inv.Status != entity.StatusApproved && inv.Status != entity.StatusPaid {
				return domain.NewTransitionError(opRequestModification, inv.Status)
			}
			if inv.HasPendingModification() {
				return domain.NewTransitionError(opRequestModification, inv.Status)
			}
			now := time.Now()
			inv.ModificationRequestedAt = &now
			return nil
		})
}

// ApproveModification cierra la solicitud de modificación pendiente,
// desbloqueando la edición de líneas para el siguiente ciclo. La mecánica de
// edición en sí es responsabilidad del agregado.
func (e *WorkflowEngine) ApproveModification(ctx context.Context, tenantID, invoiceID, actorID string) (*dto.InvoiceResponse, error) {
	return e.transition(ctx, tenantID, invoiceID, actorID, opApproveModification,
		func(inv *entity.Invoice, _ repository.StockMovementRepository, _ repository.ProductRepository) error {
			if !inv.HasPendingModification() {
				return domain.NewTransitionError(opApproveModification, inv.Status)
			}
			inv.ModificationRequestedAt = nil
			return nil
		})
}

// RecalcTotals recalcula subtotal y total desde las líneas mientras el
// documento sigue en DRAFT. Idempotente con líneas sin cambios.
func (e *WorkflowEngine) RecalcTotals(ctx context.Context, tenantID, invoiceID string) (*dto.InvoiceResponse, error) {
	return e.transition(ctx, tenantID, invoiceID, "", opRecalcTotals,
		func(inv *entity.Invoice, _ repository.StockMovementRepository, _ repository.ProductRepository) error {
			if inv.Status != entity.StatusDraft {
				return domain.NewTransitionError(opRecalcTotals, inv.Status)
			}
			inv.RecalcTotals()
			return nil
		})
}

// netDeduction acumulado neto de descuentos por producto aún no revertidos.
type netDeduction struct {
	productID string
	delta     int64 // negativo mientras quede descuento por revertir
}

// netDeductions suma por producto los deltas de todos los movimientos de la
// factura, preservando el orden de primera aparición. El neto por producto es
// la cantidad pendiente de restaurar: descuentos menos reversiones previas.
func netDeductions(movements []*entity.StockMovement) []netDeduction {
	totals := make(map[string]int64, len(movements))
	order := make([]string, 0, len(movements))
	for _, m := range movements {
		if _, seen := totals[m.ProductID]; !seen {
			order = append(order, m.ProductID)
		}
		totals[m.ProductID] += m.QuantityDelta
	}
	out := make([]netDeduction, 0, len(order))
	for _, productID := range order {
		if totals[productID] != 0 {
			out = append(out, netDeduction{productID: productID, delta: totals[productID]})
		}
	}
	return out
}
