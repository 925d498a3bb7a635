package controllers

import (
	"github.com/cardnest/CardNest/models"
	"github.com/cardnest/CardNest/utils"
	"github.com/gin-gonic/gin"
)

// TradeReplayRequest represents a manual trade replay request
type TradeReplayRequest struct {
	PaymentID string `json:"payment_id"`
	ListingID uint   `json:"listing_id" binding:"required"`
	BuyerID   uint   `json:"buyer_id" binding:"required"`
	SellerID  uint   `json:"seller_id" binding:"required"`
	ItemLabel string `json:"item_label"`
	Amount    string `json:"amount"`
}

// POST /admin/trades/replay
//
// Operator-triggered recovery: re-runs the ownership transfer with explicit
// IDs when automatic reconciliation could not resolve them, or when a step
// failed after the transfer gate was already claimed.
func ReplayTradeTransfer(c *gin.Context) {
	utils.LogInfo("ReplayTradeTransfer called")

	var req TradeReplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid trade replay request: %v", err)
		utils.BadRequest(c, "listing_id, buyer_id and seller_id are required", err.Error())
		return
	}

	itemLabel := req.ItemLabel
	amount := req.Amount
	if req.PaymentID != "" {
		payment, err := utils.Payments.Get(req.PaymentID)
		if err != nil {
			utils.LogError("Trade replay: failed to load payment %s: %v", req.PaymentID, err)
		} else if payment != nil {
			if itemLabel == "" {
				itemLabel = payment.ItemName
			}
			if amount == "" {
				amount = payment.Amount
			}
		}
	}

	utils.LogInfo("Replaying trade transfer - payment %q, listing %d, buyer %d, seller %d",
		req.PaymentID, req.ListingID, req.BuyerID, req.SellerID)

	if err := utils.ExecuteTradeTransfer(utils.Market, req.ListingID, req.BuyerID, req.SellerID, itemLabel, amount); err != nil {
		utils.LogError("Trade replay failed for listing %d: %v", req.ListingID, err)
		utils.InternalServerError(c, "Trade transfer failed", err.Error())
		return
	}

	if req.PaymentID != "" {
		// Latch the transferred marker so a later notification replay skips
		// the automatic path.
		if _, err := utils.Payments.Merge(req.PaymentID, utils.PaymentPatch{
			Status:    models.PaymentStatusComplete,
			ListingID: req.ListingID,
			BuyerID:   req.BuyerID,
			SellerID:  req.SellerID,
		}); err != nil {
			utils.LogError("Trade replay: failed to update payment %s: %v", req.PaymentID, err)
		} else if _, err := utils.Payments.TryMarkTransferred(req.PaymentID); err != nil {
			utils.LogError("Trade replay: failed to latch transfer marker for payment %s: %v", req.PaymentID, err)
		}
	}

	utils.Success(c, "Trade transfer replayed successfully", gin.H{
		"listing_id": req.ListingID,
		"buyer_id":   req.BuyerID,
		"seller_id":  req.SellerID,
	})
}
