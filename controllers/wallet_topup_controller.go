package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cardnest/CardNest/config"
	"github.com/cardnest/CardNest/models"
	"github.com/cardnest/CardNest/utils"
	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
)

// InitiateWalletTopup initiates a Razorpay payment to add money to the wallet
func InitiateWalletTopup(c *gin.Context) {
	utils.LogInfo("InitiateWalletTopup called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return
	}
	userID := user.ID

	var req struct {
		Amount float64 `json:"amount" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid topup request for user ID: %d: %v", userID, err)
		utils.BadRequest(c, "Invalid request. Amount is required and must be positive", err.Error())
		return
	}

	wallet, err := getOrCreateWallet(userID)
	if err != nil {
		utils.LogError("Failed to get wallet for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	// Razorpay expects the amount in the currency's minor unit
	amountCents := int(req.Amount * 100)

	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          amountCents,
		"currency":        "ZAR",
		"receipt":         "wallet_topup_" + strconv.FormatUint(uint64(userID), 10) + "_" + time.Now().Format("20060102150405"),
		"payment_capture": 1,
	}
	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to create Razorpay order", err.Error())
		return
	}

	topupOrder := models.WalletTopupOrder{
		UserID:          userID,
		RazorpayOrderID: fmt.Sprintf("%v", rzOrder["id"]),
		Amount:          req.Amount,
		Status:          "pending",
	}
	if err := config.DB.Create(&topupOrder).Error; err != nil {
		utils.LogError("Failed to record wallet topup order for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to record wallet topup order", err.Error())
		return
	}

	utils.LogInfo("Initiated wallet topup for user ID: %d, order %s", userID, topupOrder.RazorpayOrderID)
	utils.Success(c, "Wallet topup order created successfully", gin.H{
		"razorpay_order_id": rzOrder["id"],
		"amount_display":    fmt.Sprintf("R%.2f", req.Amount),
		"key":               os.Getenv("RAZORPAY_KEY"),
		"wallet": gin.H{
			"id":      wallet.ID,
			"balance": fmt.Sprintf("%.2f", wallet.Balance),
		},
	})
}

// VerifyWalletTopup verifies the Razorpay payment and credits the wallet
func VerifyWalletTopup(c *gin.Context) {
	utils.LogInfo("VerifyWalletTopup called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return
	}
	userID := user.ID

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid verification request for user ID: %d: %v", userID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var topupOrder models.WalletTopupOrder
	err := config.DB.Where("razorpay_order_id = ?", req.RazorpayOrderID).First(&topupOrder).Error
	if err != nil || topupOrder.Amount <= 0 {
		utils.LogError("Failed to fetch wallet topup order %s: %v", req.RazorpayOrderID, err)
		utils.BadRequest(c, "Unable to fetch wallet topup amount for this order_id", nil)
		return
	}
	if topupOrder.Status == "completed" {
		utils.LogInfo("Wallet topup order %s already completed", req.RazorpayOrderID)
		utils.BadRequest(c, "This topup has already been processed", nil)
		return
	}
	amount := topupOrder.Amount

	// Razorpay signs "<order_id>|<payment_id>" with HMAC-SHA256
	keySecret := os.Getenv("RAZORPAY_SECRET")
	data := req.RazorpayOrderID + "|" + req.RazorpayPaymentID
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(data))
	generatedSignature := hex.EncodeToString(h.Sum(nil))
	if generatedSignature != req.RazorpaySignature {
		utils.LogError("Topup verification failed for order %s", req.RazorpayOrderID)
		utils.BadRequest(c, "Payment verification failed", gin.H{"retry": true})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to begin transaction for order %s: %v", req.RazorpayOrderID, tx.Error)
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
		return
	}

	wallet, err := getOrCreateWallet(userID)
	if err != nil {
		tx.Rollback()
		utils.LogError("Failed to get wallet for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	reference := fmt.Sprintf("TOPUP-%s", req.RazorpayPaymentID)
	transaction, err := createWalletTransaction(wallet.ID, amount, models.TransactionTypeCredit, "Wallet topup via Razorpay", nil, reference)
	if err != nil {
		tx.Rollback()
		utils.LogError("Failed to create wallet transaction for order %s: %v", req.RazorpayOrderID, err)
		utils.InternalServerError(c, "Failed to create transaction", err.Error())
		return
	}

	if err := updateWalletBalance(wallet.ID, amount, models.TransactionTypeCredit); err != nil {
		tx.Rollback()
		utils.LogError("Failed to update wallet balance for wallet ID: %d: %v", wallet.ID, err)
		utils.InternalServerError(c, "Failed to update wallet balance", err.Error())
		return
	}

	topupOrder.Status = "completed"
	if err := tx.Save(&topupOrder).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to update topup order status for order %s: %v", req.RazorpayOrderID, err)
		utils.InternalServerError(c, "Failed to update topup order status", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for order %s: %v", req.RazorpayOrderID, err)
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	updatedWallet, err := getOrCreateWallet(userID)
	if err != nil {
		utils.LogError("Failed to get updated wallet for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to get updated wallet", err.Error())
		return
	}

	utils.LogInfo("Completed wallet topup for user ID: %d, order %s", userID, req.RazorpayOrderID)
	utils.Success(c, "Money added to wallet successfully!", gin.H{
		"amount_added":   fmt.Sprintf("%.2f", amount),
		"wallet_balance": fmt.Sprintf("%.2f", updatedWallet.Balance),
		"transaction_id": transaction.ID,
		"reference":      reference,
	})
}
