package utils

import (
	"context"
	"time"

	"github.com/cardnest/CardNest/config"
	"github.com/cardnest/CardNest/models"
	"gorm.io/gorm"
)

// TradeData is the data-access surface the transfer engine and the
// confirmation reconciler depend on. The rest of the marketplace owns
// these entities; this subsystem only looks them up and applies the
// bookkeeping of a sale.
type TradeData interface {
	ListingByID(id uint) (*models.Listing, error)
	ActiveListingsByName(name string) ([]models.Listing, error)
	DeactivateListing(id uint) error

	UserByID(id uint) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
	StoreByUserID(userID uint) (*models.Store, error)

	CollectiblesByUser(userID uint) ([]models.Collectible, error)
	InsertCollectible(collectible *models.Collectible) error
	DeleteCollectible(id uint) error

	InsertOrder(order *models.Order) error
	OrderByListingID(listingID uint) (*models.Order, error)
	IncrementStoreSales(storeID uint) error
}

// Market is the process-wide trade data access, swapped out in tests.
var Market TradeData = &GormTradeData{}

// lookupTimeout bounds every trade lookup so a slow database stalls one
// step instead of the webhook handler.
const lookupTimeout = 5 * time.Second

// GormTradeData implements TradeData against the shared database handle.
type GormTradeData struct{}

func (d *GormTradeData) db() (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	return config.DB.WithContext(ctx), cancel
}

func (d *GormTradeData) ListingByID(id uint) (*models.Listing, error) {
	db, cancel := d.db()
	defer cancel()
	var listing models.Listing
	if err := db.First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (d *GormTradeData) ActiveListingsByName(name string) ([]models.Listing, error) {
	db, cancel := d.db()
	defer cancel()
	var listings []models.Listing
	err := db.Where("LOWER(TRIM(item_name)) = LOWER(TRIM(?)) AND is_active = ?", name, true).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (d *GormTradeData) DeactivateListing(id uint) error {
	db, cancel := d.db()
	defer cancel()
	return db.Model(&models.Listing{}).Where("id = ?", id).
		Update("is_active", false).Error
}

func (d *GormTradeData) UserByID(id uint) (*models.User, error) {
	db, cancel := d.db()
	defer cancel()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *GormTradeData) UserByEmail(email string) (*models.User, error) {
	db, cancel := d.db()
	defer cancel()
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *GormTradeData) StoreByUserID(userID uint) (*models.Store, error) {
	db, cancel := d.db()
	defer cancel()
	var store models.Store
	if err := db.Where("user_id = ?", userID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (d *GormTradeData) CollectiblesByUser(userID uint) ([]models.Collectible, error) {
	db, cancel := d.db()
	defer cancel()
	var collectibles []models.Collectible
	if err := db.Where("user_id = ?", userID).Find(&collectibles).Error; err != nil {
		return nil, err
	}
	return collectibles, nil
}

func (d *GormTradeData) InsertCollectible(collectible *models.Collectible) error {
	db, cancel := d.db()
	defer cancel()
	return db.Create(collectible).Error
}

func (d *GormTradeData) DeleteCollectible(id uint) error {
	db, cancel := d.db()
	defer cancel()
	return db.Delete(&models.Collectible{}, id).Error
}

func (d *GormTradeData) InsertOrder(order *models.Order) error {
	db, cancel := d.db()
	defer cancel()
	return db.Create(order).Error
}

func (d *GormTradeData) OrderByListingID(listingID uint) (*models.Order, error) {
	db, cancel := d.db()
	defer cancel()
	var order models.Order
	err := db.Where("listing_id = ?", listingID).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (d *GormTradeData) IncrementStoreSales(storeID uint) error {
	db, cancel := d.db()
	defer cancel()
	return db.Model(&models.Store{}).Where("id = ?", storeID).
		Update("sales_count", gorm.Expr("sales_count + 1")).Error
}
