package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cardnest/CardNest/config"
	"github.com/cardnest/CardNest/models"
	"github.com/cardnest/CardNest/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InitiatePaymentRequest represents the payment initiation request
type InitiatePaymentRequest struct {
	Amount          string `json:"amount"`
	ItemName        string `json:"item_name"`
	ItemDescription string `json:"item_description"`
	BuyerEmail      string `json:"buyer_email"`
	BuyerFirstName  string `json:"buyer_first_name"`
	BuyerLastName   string `json:"buyer_last_name"`
	ReturnURL       string `json:"return_url"`
	CancelURL       string `json:"cancel_url"`
	NotifyURL       string `json:"notify_url"`
	PaymentID       string `json:"payment_id"`
	ListingID       uint   `json:"listing_id"`
	BuyerID         uint   `json:"buyer_id"`
	SellerID        uint   `json:"seller_id"`
}

// POST /payments/initiate
func InitiatePayment(c *gin.Context) {
	utils.LogInfo("InitiatePayment called")

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payment initiation request: %v", err)
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(req.Amount), 64)
	if err != nil || amount <= 0 {
		utils.LogError("Payment initiation rejected: invalid amount %q", req.Amount)
		utils.BadRequest(c, "A positive amount is required", gin.H{
			"fallback": "Supply amount as a decimal string, e.g. \"165.00\"",
		})
		return
	}
	if strings.TrimSpace(req.ItemName) == "" {
		utils.LogError("Payment initiation rejected: missing item name")
		utils.BadRequest(c, "item_name is required", nil)
		return
	}

	paymentID := req.PaymentID
	if paymentID == "" {
		paymentID = uuid.New().String()
	}
	utils.LogInfo("Initiating payment %s for item %q, amount %.2f", paymentID, req.ItemName, amount)

	creds := config.App.PayFastCreds()
	baseURL := config.App.AppBaseURL

	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = fmt.Sprintf("%s/v1/payments/return?payment_id=%s&status=success", baseURL, paymentID)
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = fmt.Sprintf("%s/v1/payments/return?payment_id=%s&status=cancel", baseURL, paymentID)
	}
	notifyURL := req.NotifyURL
	if notifyURL == "" {
		notifyURL = baseURL + "/v1/payments/notify"
	}

	amountStr := fmt.Sprintf("%.2f", amount)
	params := map[string]string{
		"merchant_id":      creds.MerchantID,
		"merchant_key":     creds.MerchantKey,
		"return_url":       returnURL,
		"cancel_url":       cancelURL,
		"notify_url":       notifyURL,
		"m_payment_id":     paymentID,
		"amount":           amountStr,
		"item_name":        req.ItemName,
		"item_description": req.ItemDescription,
		"email_address":    req.BuyerEmail,
		"name_first":       req.BuyerFirstName,
		"name_last":        req.BuyerLastName,
	}
	params["signature"] = utils.PayFastSign(params, creds.Passphrase)

	payment := models.Payment{
		PaymentID:  paymentID,
		Status:     models.PaymentStatusPending,
		Amount:     amountStr,
		ItemName:   req.ItemName,
		BuyerEmail: req.BuyerEmail,
		ListingID:  req.ListingID,
		BuyerID:    req.BuyerID,
		SellerID:   req.SellerID,
	}
	if err := utils.Payments.Create(&payment); err != nil {
		utils.LogError("Failed to persist payment %s: %v", paymentID, err)
		utils.InternalServerError(c, "Failed to create payment record", err.Error())
		return
	}
	utils.LogInfo("Created pending payment record %s (listing %d, buyer %d, seller %d)",
		paymentID, req.ListingID, req.BuyerID, req.SellerID)

	utils.Success(c, "Payment initiated successfully", gin.H{
		"payment_id":  paymentID,
		"payment_url": utils.PayFastRedirectURL(creds, params),
		"params":      params,
	})
}
