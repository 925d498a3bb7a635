package routes

import (
	"github.com/cardnest/CardNest/controllers"
	"github.com/cardnest/CardNest/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all user-related routes
func initUserRoutes(router *gin.RouterGroup) {
	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		// Orders
		protected.GET("/orders", controllers.ListOrders)
		protected.GET("/orders/:id/receipt", controllers.DownloadReceipt)

		// Wallet
		protected.POST("/wallet/topup", controllers.InitiateWalletTopup)
		protected.POST("/wallet/topup/verify", controllers.VerifyWalletTopup)
	}
}
