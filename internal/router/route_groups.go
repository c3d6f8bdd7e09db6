package router

import (
	"restro_erp_backend/internal/handlers"
	"restro_erp_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes sets up the order lifecycle routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	orderRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/window", orderHandler.GetOrdersInWindow)
		orderRoutes.GET("/table/:label", orderHandler.GetActiveOrdersByTable)
		orderRoutes.PUT("/complete", orderHandler.CompleteByTable)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.PUT("/:id", orderHandler.EditOrder)
		orderRoutes.PUT("/:id/items", orderHandler.AddItems)
		orderRoutes.PATCH("/:id/status", orderHandler.ChangeStatus)
		orderRoutes.PUT("/:id/kitchen", orderHandler.SendToKitchen)
	}
}

// SetupUnitRoutes sets up the table and room management routes.
func SetupUnitRoutes(authenticatedGroup *gin.RouterGroup, unitHandler *handlers.UnitHandler) {
	tableRoutes := authenticatedGroup.Group("/tables")
	tableRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		tableRoutes.POST("", unitHandler.CreateTable)
		tableRoutes.GET("", unitHandler.GetTables)
		tableRoutes.GET("/:label", unitHandler.GetTableByLabel)
	}

	roomRoutes := authenticatedGroup.Group("/rooms")
	roomRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		roomRoutes.POST("", unitHandler.CreateRoom)
		roomRoutes.GET("", unitHandler.GetRooms)
		roomRoutes.GET("/:label", unitHandler.GetRoomByLabel)
		roomRoutes.POST("/:label/check-in", unitHandler.CheckInRoom)
		roomRoutes.POST("/:label/check-out", unitHandler.CheckOutRoom)
	}

	unitRoutes := authenticatedGroup.Group("/units")
	unitRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		unitRoutes.GET("/counts", unitHandler.GetOccupancyCounts)
		unitRoutes.PUT("/:label/release", unitHandler.ReleaseUnit)
		unitRoutes.DELETE("/:id", unitHandler.DeleteUnit)
	}
}

// SetupPosRoutes sets up the POS billing and sales reporting routes.
func SetupPosRoutes(authenticatedGroup *gin.RouterGroup, posHandler *handlers.PosHandler) {
	posRoutes := authenticatedGroup.Group("/pos")
	posRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		posRoutes.POST("/transactions", posHandler.CreateTransaction)
		posRoutes.GET("/transactions", posHandler.GetTransactions)
		posRoutes.PATCH("/transactions/:id/transfer-credit", posHandler.TransferCredit)
		posRoutes.PUT("/tables/:label/items", posHandler.AddItemsToTableOrder)
		posRoutes.GET("/sales", posHandler.GetSales)
		posRoutes.GET("/sales/top-items", posHandler.GetTopItems)
		posRoutes.GET("/sales/payment-types", posHandler.GetPaymentTypeTotals)
	}
}

// SetupBillRoutes sets up the derived bill routes.
func SetupBillRoutes(authenticatedGroup *gin.RouterGroup, billHandler *handlers.BillHandler) {
	billRoutes := authenticatedGroup.Group("/bills")
	billRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		billRoutes.GET("/table/:label", billHandler.GetBillForTable)
	}
}

// SetupMenuRoutes sets up the menu item CRUD routes.
func SetupMenuRoutes(authenticatedGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menuRoutes := authenticatedGroup.Group("/menu-items")
	menuRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		menuRoutes.POST("", menuHandler.CreateMenuItem)
		menuRoutes.GET("", menuHandler.GetMenuItems)
		menuRoutes.GET("/:id", menuHandler.GetMenuItemByID)
		menuRoutes.PUT("/:id", menuHandler.UpdateMenuItem)
		menuRoutes.DELETE("/:id", menuHandler.DeleteMenuItem)
	}
}
