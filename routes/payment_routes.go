package routes

import (
	"github.com/cardnest/CardNest/controllers"
	"github.com/gin-gonic/gin"
)

// initPaymentRoutes initializes the payment gateway routes. The notify and
// return endpoints are called by the gateway and the buyer's browser; they
// carry their own verification and cannot sit behind auth middleware.
func initPaymentRoutes(router *gin.RouterGroup) {
	payments := router.Group("/payments")
	{
		payments.POST("/initiate", controllers.InitiatePayment)
		payments.POST("/notify", controllers.HandlePaymentNotification)
		payments.GET("/return", controllers.HandlePaymentReturn)
		payments.GET("/:payment_id", controllers.GetPaymentStatus)
	}
}
