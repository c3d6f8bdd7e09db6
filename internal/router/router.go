package router

import (
	"database/sql"

	"restro_erp_backend/internal/handlers"
	"restro_erp_backend/internal/middleware"
	"restro_erp_backend/internal/notifier"
	"restro_erp_backend/internal/repositories"
	"restro_erp_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application. The events publisher
// may be nil when no message broker is configured.
func Setup(engine *gin.Engine, db *sql.DB, events *notifier.Publisher) {
	// Initialize Repositories
	orderRepo := repositories.NewOrderRepository(db)
	unitRepo := repositories.NewUnitRepository(db)
	posRepo := repositories.NewPosRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	userRepo := repositories.NewUserRepository(db)
	txRunner := repositories.NewTxRunner(db)

	// Initialize Services
	orderService := services.NewOrderService(orderRepo, unitRepo, txRunner, events)
	unitService := services.NewUnitService(unitRepo, orderService, txRunner)
	posService := services.NewPosService(posRepo, orderRepo, unitRepo, orderService, txRunner, events)
	billService := services.NewBillService(unitRepo, orderRepo)
	menuService := services.NewMenuService(menuRepo)
	authService := services.NewAuthService(userRepo)

	// Initialize Handlers
	orderHandler := handlers.NewOrderHandler(orderService)
	unitHandler := handlers.NewUnitHandler(unitService, orderService)
	posHandler := handlers.NewPosHandler(posService)
	billHandler := handlers.NewBillHandler(billService)
	menuHandler := handlers.NewMenuHandler(menuService)
	authHandler := handlers.NewAuthHandler(authService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)

		SetupOrderRoutes(authenticated, orderHandler)
		SetupUnitRoutes(authenticated, unitHandler)
		SetupPosRoutes(authenticated, posHandler)
		SetupBillRoutes(authenticated, billHandler)
		SetupMenuRoutes(authenticated, menuHandler)
	}
}

// SetupPublicAuthRoutes registers the routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.Register)
	group.POST("/login", authHandler.Login)
	group.POST("/refresh-token", authHandler.Refresh)
}

// SetupAuthenticatedAuthRoutes registers auth routes that require a valid token.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.Profile)
}
