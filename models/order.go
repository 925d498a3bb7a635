package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusCompleted = "completed"
	OrderStatusRefunded  = "refunded"
)

// Order is the append-only record of a completed trade
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderNumber string    `json:"order_number" gorm:"uniqueIndex;not null"`
	BuyerID     uint      `json:"buyer_id" gorm:"index"`
	Buyer       User      `json:"-" gorm:"foreignKey:BuyerID"`
	StoreID     uint      `json:"store_id" gorm:"index"`
	Store       Store     `json:"-" gorm:"foreignKey:StoreID"`
	ListingID   uint      `json:"listing_id" gorm:"index"`
	ItemName    string    `json:"item_name"`
	ItemImage   string    `json:"item_image"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
