package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/document"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	PeriodUC    *usecase.PeriodUseCase
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	DocumentUC  *document.UseCase
	LedgerUC    *ledger.QueryUseCase
	RecalcUC    *ledger.RecalculateCompanyUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Companies
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.PeriodUC, deps.RecalcUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id/periods", companyHandler.SetPeriod)
	companies.Post("/:id/recalculate", companyHandler.Recalculate)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Documents (compras, ventas, ajustes, edición y anulación)
	documents := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	documents.Post("/purchases", documentHandler.PostPurchase)
	documents.Post("/sales", documentHandler.PostSale)
	documents.Post("/adjustments", documentHandler.PostAdjustment)
	documents.Put("/:id", documentHandler.Edit)
	documents.Delete("/:id", documentHandler.Delete)

	// Kardex (solo lectura)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	api.Get("/ledger", ledgerHandler.GetSlice)
}
