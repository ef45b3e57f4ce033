package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/auth"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/cart"
	appreport "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/report"
	appsale "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/sale"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/state"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/usecase"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProductUC *usecase.ProductUseCase
	CartMgr   *cart.Manager
	ConfirmUC *appsale.ConfirmSaleUseCase
	ResetUC   *appsale.ResetSalesUseCase
	ReportUC  *appreport.UseCase
	Feed      *state.Feed
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

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Cart (protegido): la venta en curso
	cartGroup := protected.Group("/cart")
	cartHandler := NewCartHandler(deps.CartMgr)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Delete("/items/:productId", cartHandler.RemoveItem)
	cartGroup.Delete("/", cartHandler.Clear)

	// Sales (protegido): confirmación, historial y reinicio admin
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.ConfirmUC, deps.ResetUC)
	sales.Post("/", saleHandler.Confirm)
	sales.Get("/", saleHandler.List)
	sales.Post("/reset", RequireRole(entity.RoleAdmin), saleHandler.Reset)
	sales.Get("/:id", saleHandler.GetByID)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/products", reportHandler.ByProduct)
	reports.Get("/products/csv", reportHandler.ExportCSV)
	reports.Get("/products/pdf", reportHandler.ExportPDF)
	reports.Get("/dashboard", reportHandler.Dashboard)

	// Events (protegido): stream SSE de snapshots
	eventsHandler := NewEventsHandler(deps.Feed)
	protected.Get("/events", eventsHandler.Subscribe)
}
