package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/facturio/billing-api/internal/application/auth"
	"github.com/facturio/billing-api/internal/application/billing"
	"github.com/facturio/billing-api/internal/application/inventory"
	"github.com/facturio/billing-api/internal/application/usecase"
	infrapdf "github.com/facturio/billing-api/internal/infrastructure/pdf"
	"github.com/facturio/billing-api/internal/infrastructure/postgres"
	httpRouter "github.com/facturio/billing-api/internal/interfaces/http"
	"github.com/facturio/billing-api/pkg/config"
	"github.com/facturio/billing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewStockLedger(txRunner, movementRepo, productRepo)
	engine := billing.NewWorkflowEngine(txRunner, ledger, log.Component("workflow"))
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, clientRepo, productRepo)
	clientUC := billing.NewClientUseCase(clientRepo)

	// PDF: albarán de entrega de facturas con inventario comprometido
	deliveryUC := billing.NewDeliveryNoteUseCase(
		invoiceRepo, tenantRepo, clientRepo, infrapdf.NewMarotoDeliveryNoteGenerator(),
	)

	tenantUC := usecase.NewTenantUseCase(tenantRepo)
	productUC := usecase.NewProductUseCase(productRepo, ledger)
	authUC := auth.NewAuthUseCase(userRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		TenantUC:  tenantUC,
		ProductUC: productUC,
		ClientUC:  clientUC,
		InvoiceUC: invoiceUC,
		Engine:    engine,
		Delivery:  deliveryUC,
		Ledger:    ledger,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
