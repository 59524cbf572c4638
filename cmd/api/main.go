package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/stock-ledger/docs"
	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/backend"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// @title        Stock Ledger API
// @version      1.0
// @description  Libro de movimientos de inventario y saldos por ubicación.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	txRunner, closeStore, err := backend.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer closeStore()

	productUC := usecase.NewProductUseCase(txRunner)
	locationUC := usecase.NewLocationUseCase(txRunner)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, log)
	reportUC := inventory.NewReportUseCase(txRunner, infrapdf.NewMarotoPDFGenerator())
	dashboardUC := appanalytics.NewDashboardUseCase(txRunner)

	var authUC *auth.AuthUseCase
	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: autenticación deshabilitada")
	} else {
		creds, err := auth.ParseCredentials(cfg.JWT.Users)
		if err != nil {
			log.Fatal().Err(err).Msg("AUTH_USERS inválido")
		}
		if len(creds) > 0 {
			authUC = auth.NewAuthUseCase(creds, auth.JWTConfig{
				Secret:     cfg.JWT.Secret,
				ExpMinutes: cfg.JWT.Expiration,
				Issuer:     cfg.JWT.Issuer,
			})
		}
		log.Info().Int("users", len(creds)).Msg("autenticación JWT activa")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Accept,Authorization,Content-Type," + httpRouter.HeaderRequestID,
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en http://localhost:<port>/docs (solo si el documento existe).
	if _, err := os.Stat(cfg.Swagger.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db_driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		LocationUC:  locationUC,
		LedgerUC:    ledgerUC,
		ReportUC:    reportUC,
		DashboardUC: dashboardUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
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
