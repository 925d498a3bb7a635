package controllers

import (
	"fmt"
	"net/http"

	"github.com/cardnest/CardNest/config"
	"github.com/cardnest/CardNest/models"
	"github.com/cardnest/CardNest/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// GET /payments/return?payment_id=...&status=success|cancel
//
// The buyer's browser lands here after leaving the gateway's hosted page.
// The asserted outcome is advisory; reconciliation decides what sticks.
func HandlePaymentReturn(c *gin.Context) {
	utils.LogInfo("HandlePaymentReturn called")

	paymentID := c.Query("payment_id")
	outcome := c.DefaultQuery("status", utils.ReturnOutcomeSuccess)
	if paymentID == "" {
		utils.LogError("Payment return without payment_id")
		utils.BadRequest(c, "payment_id is required", nil)
		return
	}

	payment, err := utils.ProcessPaymentReturn(paymentID, outcome)
	if err != nil {
		utils.LogError("Failed to process payment return for %s: %v", paymentID, err)
	}

	status := outcome
	if payment != nil {
		status = payment.Status
	} else if outcome == utils.ReturnOutcomeCancel {
		status = models.PaymentStatusCancelled
	}

	session := sessions.Default(c)
	session.Set("last_payment_id", paymentID)
	session.Set("last_payment_status", status)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save payment outcome to session: %v", err)
	}

	frontend := config.App.FrontendURL
	if frontend == "" {
		utils.Success(c, "Payment return processed", gin.H{
			"payment_id": paymentID,
			"status":     status,
		})
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/payment/result?payment_id=%s&status=%s", frontend, paymentID, status))
}
