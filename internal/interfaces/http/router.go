package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	LedgerUC    *inventory.LedgerUseCase
	ReportUC    *inventory.ReportUseCase
	DashboardUC *appanalytics.DashboardUseCase
	// AuthUC nil omite /api/auth/login.
	AuthUC *auth.AuthUseCase
	// JWTSecret vacío deshabilita la autenticación (desarrollo local).
	JWTSecret string
}

// Router registra las rutas de la API. Con JWT activo todas las rutas /api exigen Bearer Token
// y las escrituras además el rol admin o bodeguero; el rol auditor queda en solo lectura.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Login es público: se registra antes del middleware de autenticación.
	if deps.AuthUC != nil {
		authHandler := NewAuthHandler(deps.AuthUC)
		api.Post("/auth/login", authHandler.Login)
	}

	write := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		write = RequireRole(RoleAdmin, RoleBodeguero)
	}

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/summary", dashboardHandler.GetSummary)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", write, productHandler.Create)
	products.Put("/:id", write, productHandler.Update)
	products.Delete("/:id", write, productHandler.Delete)

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", write, locationHandler.Create)
	locations.Put("/:id", write, locationHandler.Update)
	locations.Delete("/:id", write, locationHandler.Delete)

	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.Get)
	movements.Post("/", write, movementHandler.Record)
	movements.Put("/:id", write, movementHandler.Amend)
	movements.Delete("/:id", write, movementHandler.Remove)

	reportHandler := NewReportHandler(deps.ReportUC)
	api.Get("/report", reportHandler.GetReport)
	api.Get("/report/pdf", reportHandler.GetReportPDF)
	api.Get("/balances", reportHandler.GetBalance)
}
