package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a regular user in the system
type User struct {
	gorm.Model
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	ProfileImage string    `json:"profile_image"`
	IsBlocked    bool      `json:"is_blocked"`
	LastLoginAt  time.Time `json:"last_login_at"`
	Wallet       Wallet    `json:"wallet,omitempty" gorm:"foreignKey:UserID"`
}

// Admin represents an administrator in the system
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// Store represents a seller's storefront
type Store struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"uniqueIndex"`
	User        User   `json:"-" gorm:"foreignKey:UserID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	SalesCount  int    `json:"sales_count" gorm:"default:0"`
}

// Listing represents a card put up for sale by a seller
type Listing struct {
	gorm.Model
	SellerID    uint    `json:"seller_id" gorm:"index"`
	Seller      User    `json:"-" gorm:"foreignKey:SellerID"`
	ItemName    string  `json:"item_name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price"`
	CardType    string  `json:"card_type"`
	SetName     string  `json:"set_name"`
	Grade       string  `json:"grade"`
	Condition   string  `json:"condition"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`
}

// Collectible represents a card owned by a user and kept in their collection
type Collectible struct {
	gorm.Model
	UserID        uint      `json:"user_id" gorm:"index"`
	User          User      `json:"-" gorm:"foreignKey:UserID"`
	Name          string    `json:"name"`
	CardType      string    `json:"card_type"`
	SetName       string    `json:"set_name"`
	ImageURL      string    `json:"image_url"`
	Grade         string    `json:"grade"`
	Condition     string    `json:"condition"`
	PurchasePrice float64   `json:"purchase_price"`
	AcquiredAt    time.Time `json:"acquired_at"`
}
