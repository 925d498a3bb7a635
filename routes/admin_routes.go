package routes

import (
	"github.com/cardnest/CardNest/controllers"
	"github.com/cardnest/CardNest/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.POST("/login", controllers.AdminLogin)

		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware())
		{
			protected.POST("/trades/replay", controllers.ReplayTradeTransfer)
			protected.GET("/sales/export", controllers.DownloadSalesReportExcel)
		}
	}
}
