package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andresvp/lubristock-api/internal/application/auth"
	"github.com/andresvp/lubristock-api/internal/application/inventory"
	"github.com/andresvp/lubristock-api/internal/application/sales"
	"github.com/andresvp/lubristock-api/internal/application/usecase"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	EmployeeUC  *usecase.EmployeeUseCase
	ProductUC   *usecase.ProductUseCase
	InventoryUC *inventory.UseCase
	SalesUC     *sales.UseCase
	JWTSecret   string
	LoginLimit  fiber.Handler // nil desactiva el rate limit (tests)
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público, login con rate limit por IP)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	if deps.LoginLimit != nil {
		authGroup.Post("/login", deps.LoginLimit, authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Employees (solo admin)
	employees := protected.Group("/employees", RequireRole(entity.RoleAdmin))
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	employees.Post("/", employeeHandler.Create)
	employees.Get("/", employeeHandler.List)
	employees.Get("/:id", employeeHandler.GetByID)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Disable)

	// Products (lectura para todos; escritura solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Inventory (movimientos manuales y conciliación: solo admin)
	invGroup := protected.Group("/inventory", RequireRole(entity.RoleAdmin))
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/reconcile", inventoryHandler.Reconcile)

	// Orders y Sales (ambos roles; el handler restringe a los propios)
	orderHandler := NewOrderHandler(deps.SalesUC)
	orders := protected.Group("/orders")
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)

	salesGroup := protected.Group("/sales")
	salesGroup.Get("/", orderHandler.ListSales)
	salesGroup.Get("/:id", orderHandler.GetSale)
	salesGroup.Get("/:id/receipt", orderHandler.Receipt)
}
