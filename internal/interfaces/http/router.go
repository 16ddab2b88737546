package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturio/billing-api/internal/application/auth"
	"github.com/facturio/billing-api/internal/application/billing"
	"github.com/facturio/billing-api/internal/application/inventory"
	"github.com/facturio/billing-api/internal/application/usecase"
	"github.com/facturio/billing-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TenantUC  *usecase.TenantUseCase
	ProductUC *usecase.ProductUseCase
	ClientUC  *billing.ClientUseCase
	InvoiceUC *billing.InvoiceUseCase
	Engine    *billing.WorkflowEngine
	Delivery  *billing.DeliveryNoteUseCase
	Ledger    *inventory.StockLedger
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Tenants (público por ahora: bootstrap de organizaciones)
	tenants := api.Group("/tenants")
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants.Post("/", tenantHandler.Create)
	tenants.Get("/", tenantHandler.List)
	tenants.Get("/:id", tenantHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Get("/:id/movements", inventoryHandler.MovementsByProduct)

	// Inventory (protegido; ajustes manuales solo admin)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/adjustments", adminOnly, inventoryHandler.RegisterAdjustment)

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)

	// Invoices (protegido). Aprobación, pago y reversión son solo de admin;
	// crear, editar borradores y enviar está abierto a cualquier usuario
	// autenticado del tenant.
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.Engine, deps.Delivery)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id/items", invoiceHandler.UpdateItems)
	invoices.Post("/:id/submit", invoiceHandler.Submit)
	invoices.Post("/:id/recalc", invoiceHandler.Recalc)
	invoices.Post("/:id/validate", adminOnly, invoiceHandler.Validate)
	invoices.Post("/:id/approve", adminOnly, invoiceHandler.Approve)
	invoices.Post("/:id/mark-paid", adminOnly, invoiceHandler.MarkPaid)
	invoices.Post("/:id/mark-unpaid", adminOnly, invoiceHandler.MarkUnpaid)
	invoices.Post("/:id/request-modification", invoiceHandler.RequestModification)
	invoices.Post("/:id/approve-modification", adminOnly, invoiceHandler.ApproveModification)
	invoices.Get("/:id/movements", inventoryHandler.MovementsByInvoice)
	invoices.Get("/:id/delivery-note", invoiceHandler.DeliveryNote)
}
