package models

import (
	"time"
)

// Payment status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusComplete  = "complete"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// Payment tracks one purchase attempt end-to-end, keyed by the
// caller-chosen payment ID embedded in the gateway callbacks.
type Payment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	PaymentID        string    `json:"payment_id" gorm:"uniqueIndex;not null"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	Status           string    `json:"status"` // pending, complete, failed, cancelled
	Amount           string    `json:"amount"`
	ItemName         string    `json:"item_name"`
	BuyerEmail       string    `json:"buyer_email"`
	ListingID        uint      `json:"listing_id"`
	BuyerID          uint      `json:"buyer_id"`
	SellerID         uint      `json:"seller_id"`
	Verified         bool      `json:"verified" gorm:"default:true"`
	Transferred      bool      `json:"transferred" gorm:"default:false"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsTerminal reports whether the payment has reached a final state.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusComplete ||
		p.Status == PaymentStatusFailed ||
		p.Status == PaymentStatusCancelled
}
