package controllers

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/cardnest/CardNest/utils"
	"github.com/gin-gonic/gin"
)

// POST /payments/notify
//
// PayFast retries any notification that is not acknowledged with a 200, so
// this handler swallows every internal failure after logging it. The form
// payload is passed through untouched; reconciliation decides what it means.
func HandlePaymentNotification(c *gin.Context) {
	utils.LogInfo("HandlePaymentNotification called from %s", c.ClientIP())

	func() {
		defer func() {
			if r := recover(); r != nil {
				utils.LogErrorWithStack(fmt.Errorf("notification handler panic: %v", r), debug.Stack())
			}
		}()

		if err := c.Request.ParseForm(); err != nil {
			utils.LogError("Failed to parse gateway notification form: %v", err)
			return
		}
		form := make(map[string]string, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				form[key] = values[0]
			}
		}
		utils.ProcessGatewayNotification(form)
	}()

	c.String(http.StatusOK, "OK")
}
