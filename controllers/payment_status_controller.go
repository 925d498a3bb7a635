package controllers

import (
	"github.com/cardnest/CardNest/utils"
	"github.com/gin-gonic/gin"
)

// GET /payments/:payment_id
func GetPaymentStatus(c *gin.Context) {
	utils.LogInfo("GetPaymentStatus called")

	paymentID := c.Param("payment_id")
	payment, err := utils.Payments.Get(paymentID)
	if err != nil {
		utils.LogError("Failed to load payment %s: %v", paymentID, err)
		utils.InternalServerError(c, "Failed to load payment", err.Error())
		return
	}
	if payment == nil {
		utils.LogError("Payment status requested for unknown payment %s", paymentID)
		utils.NotFound(c, "Payment not found")
		return
	}

	utils.Success(c, "Payment status retrieved", gin.H{
		"payment_id":         payment.PaymentID,
		"status":             payment.Status,
		"gateway_payment_id": payment.GatewayPaymentID,
		"amount":             payment.Amount,
		"verified":           payment.Verified,
		"transferred":        payment.Transferred,
	})
}
