package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cardnest/CardNest/models"
	"github.com/google/uuid"
)

// GenerateOrderNumber builds a globally unique order number from the
// current time plus a random suffix.
func GenerateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102150405"), suffix)
}

func sameCardName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// findTradedCollectible locates the sold card in the seller's collection.
// Matching tiers, first hit wins: exact name equality against the listing
// name, relaxed equality against the listing name, relaxed equality
// against the label the buyer originally paid for (the listing record and
// the purchase label can drift).
func findTradedCollectible(collectibles []models.Collectible, listingName, itemLabel string) *models.Collectible {
	for i := range collectibles {
		if collectibles[i].Name == listingName {
			return &collectibles[i]
		}
	}
	for i := range collectibles {
		if sameCardName(collectibles[i].Name, listingName) {
			return &collectibles[i]
		}
	}
	if itemLabel != "" {
		for i := range collectibles {
			if sameCardName(collectibles[i].Name, itemLabel) {
				return &collectibles[i]
			}
		}
	}
	return nil
}

// ExecuteTradeTransfer moves the sold card from seller to buyer and records
// the sale: buyer gains a collectible, the seller's matching collectible is
// removed, the listing is deactivated, an order is written and the store's
// sales counter is incremented.
//
// Every step is a distinct failure point; the first error aborts the
// remaining steps and is returned for the caller to log. Earlier steps are
// not rolled back; the manual replay endpoint recovers partial runs.
func ExecuteTradeTransfer(market TradeData, listingID, buyerID, sellerID uint, itemLabel, amount string) error {
	LogInfo("Trade transfer started - listing: %d, buyer: %d, seller: %d", listingID, buyerID, sellerID)

	listing, err := market.ListingByID(listingID)
	if err != nil {
		LogError("Trade transfer: listing %d not found: %v", listingID, err)
		return fmt.Errorf("listing %d not found: %w", listingID, err)
	}

	// A duplicate invocation (replayed notification, repeated manual
	// replay) must not commit a second time.
	if existing, err := market.OrderByListingID(listingID); err == nil && existing != nil {
		LogInfo("Trade transfer: listing %d already has order %s, skipping", listingID, existing.OrderNumber)
		return nil
	}

	buyer, err := market.UserByID(buyerID)
	if err != nil {
		LogError("Trade transfer: buyer %d not found: %v", buyerID, err)
		return fmt.Errorf("buyer %d not found: %w", buyerID, err)
	}
	seller, err := market.UserByID(sellerID)
	if err != nil {
		LogError("Trade transfer: seller %d not found: %v", sellerID, err)
		return fmt.Errorf("seller %d not found: %w", sellerID, err)
	}
	store, err := market.StoreByUserID(sellerID)
	if err != nil {
		LogError("Trade transfer: store for seller %d not found: %v", sellerID, err)
		return fmt.Errorf("store for seller %d not found: %w", sellerID, err)
	}

	price, perr := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if perr != nil || price <= 0 {
		LogError("Trade transfer: unparsable amount %q, falling back to listing price %.2f", amount, listing.Price)
		price = listing.Price
	}

	collectibles, err := market.CollectiblesByUser(sellerID)
	if err != nil {
		LogError("Trade transfer: failed to load collection for seller %d: %v", sellerID, err)
		return fmt.Errorf("load seller collection: %w", err)
	}
	traded := findTradedCollectible(collectibles, listing.ItemName, itemLabel)

	if traded != nil {
		bought := models.Collectible{
			UserID:        buyer.ID,
			Name:          listing.ItemName,
			CardType:      traded.CardType,
			SetName:       traded.SetName,
			ImageURL:      listing.ImageURL,
			Grade:         traded.Grade,
			Condition:     traded.Condition,
			PurchasePrice: price,
			AcquiredAt:    time.Now(),
		}
		if err := market.InsertCollectible(&bought); err != nil {
			LogError("Trade transfer: failed to add card to buyer %d collection: %v", buyer.ID, err)
			return fmt.Errorf("insert buyer collectible: %w", err)
		}
		if err := market.DeleteCollectible(traded.ID); err != nil {
			LogError("Trade transfer: failed to remove card %d from seller %d collection: %v", traded.ID, seller.ID, err)
			return fmt.Errorf("delete seller collectible: %w", err)
		}
		LogInfo("Trade transfer: moved card %q from seller %d to buyer %d", listing.ItemName, seller.ID, buyer.ID)
	} else {
		// No matching card in the seller's collection; build the buyer's
		// copy from the listing alone. Provenance metadata is lost, which
		// is acceptable for a best-effort system.
		LogError("Trade transfer: no collection match for %q (label %q) in seller %d, using listing fields", listing.ItemName, itemLabel, seller.ID)
		buyerCards, err := market.CollectiblesByUser(buyer.ID)
		if err != nil {
			LogError("Trade transfer: failed to load collection for buyer %d: %v", buyer.ID, err)
			return fmt.Errorf("load buyer collection: %w", err)
		}
		if findTradedCollectible(buyerCards, listing.ItemName, itemLabel) == nil {
			bought := models.Collectible{
				UserID:        buyer.ID,
				Name:          listing.ItemName,
				CardType:      listing.CardType,
				SetName:       listing.SetName,
				ImageURL:      listing.ImageURL,
				Grade:         listing.Grade,
				Condition:     listing.Condition,
				PurchasePrice: price,
				AcquiredAt:    time.Now(),
			}
			if err := market.InsertCollectible(&bought); err != nil {
				LogError("Trade transfer: failed to add card to buyer %d collection: %v", buyer.ID, err)
				return fmt.Errorf("insert buyer collectible: %w", err)
			}
		} else {
			LogInfo("Trade transfer: buyer %d already owns %q, skipping insert", buyer.ID, listing.ItemName)
		}
	}

	if err := market.DeactivateListing(listing.ID); err != nil {
		LogError("Trade transfer: failed to deactivate listing %d: %v", listing.ID, err)
		return fmt.Errorf("deactivate listing: %w", err)
	}

	order := models.Order{
		OrderNumber: GenerateOrderNumber(),
		BuyerID:     buyer.ID,
		StoreID:     store.ID,
		ListingID:   listing.ID,
		ItemName:    listing.ItemName,
		ItemImage:   listing.ImageURL,
		Price:       price,
		Status:      models.OrderStatusCompleted,
	}
	if err := market.InsertOrder(&order); err != nil {
		LogError("Trade transfer: failed to create order for listing %d: %v", listing.ID, err)
		return fmt.Errorf("insert order: %w", err)
	}

	if err := market.IncrementStoreSales(store.ID); err != nil {
		LogError("Trade transfer: failed to increment sales counter for store %d: %v", store.ID, err)
		return fmt.Errorf("increment store sales: %w", err)
	}

	LogInfo("Trade transfer completed - order %s, buyer %d, store %d, price %.2f", order.OrderNumber, buyer.ID, store.ID, price)

	if buyer.Email != "" {
		go func(email, item, orderNumber string, price float64) {
			if err := SendPurchaseConfirmation(email, item, orderNumber, price); err != nil {
				LogError("Failed to send purchase confirmation for order %s: %v", orderNumber, err)
			}
		}(buyer.Email, listing.ItemName, order.OrderNumber, price)
	}

	return nil
}
