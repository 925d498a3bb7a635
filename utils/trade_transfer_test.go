package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBuyerID  = uint(1)
	testSellerID = uint(2)
)

func setupTrade(t *testing.T) (*fakeMarket, uint) {
	t.Helper()
	market := newFakeMarket()
	market.addUser(testBuyerID, "buyer@example.com")
	market.addUser(testSellerID, "seller@example.com")
	market.addStore(testSellerID, "Rare Finds")
	listing := market.addListing(testSellerID, "Flareon Ex", 150.00)
	return market, listing.ID
}

func TestTradeTransferHappyPath(t *testing.T) {
	market, listingID := setupTrade(t)
	sellerCard := market.addCollectible(testSellerID, "Flareon Ex")

	err := ExecuteTradeTransfer(market, listingID, testBuyerID, testSellerID, "Flareon Ex", "165.00")
	require.NoError(t, err)

	buyerCards := market.collectiblesOf(testBuyerID)
	require.Len(t, buyerCards, 1)
	assert.Equal(t, "Flareon Ex", buyerCards[0].Name)
	assert.Equal(t, 165.00, buyerCards[0].PurchasePrice)
	assert.Equal(t, "PSA 9", buyerCards[0].Grade, "grading metadata carries over from the seller's card")
	assert.False(t, buyerCards[0].AcquiredAt.IsZero())

	sellerCards := market.collectiblesOf(testSellerID)
	assert.Empty(t, sellerCards, "seller's card %d must be removed", sellerCard.ID)

	listing, err := market.ListingByID(listingID)
	require.NoError(t, err)
	assert.False(t, listing.IsActive)

	require.Equal(t, 1, market.orderCount())
	order := market.orders[0]
	assert.Equal(t, 165.00, order.Price)
	assert.Equal(t, "completed", order.Status)
	assert.Equal(t, testBuyerID, order.BuyerID)
	assert.NotEmpty(t, order.OrderNumber)

	store, _ := market.StoreByUserID(testSellerID)
	assert.Equal(t, 1, market.salesCounts[store.ID])
}

func TestTradeTransferRelaxedNameMatching(t *testing.T) {
	market, listingID := setupTrade(t)
	market.addCollectible(testSellerID, "  flareon ex ")

	err := ExecuteTradeTransfer(market, listingID, testBuyerID, testSellerID, "Flareon Ex", "165.00")
	require.NoError(t, err)

	assert.Empty(t, market.collectiblesOf(testSellerID))
	require.Len(t, market.collectiblesOf(testBuyerID), 1)
}

func TestTradeTransferMatchesOnPurchaseLabel(t *testing.T) {
	market := newFakeMarket()
	market.addUser(testBuyerID, "buyer@example.com")
	market.addUser(testSellerID, "seller@example.com")
	market.addStore(testSellerID, "Rare Finds")
	// The listing name drifted after the seller renamed it; the card in the
	// collection still matches the label the buyer paid for.
	listing := market.addListing(testSellerID, "Flareon Ex (Graded)", 150.00)
	market.addCollectible(testSellerID, "Flareon Ex")

	err := ExecuteTradeTransfer(market, listing.ID, testBuyerID, testSellerID, "Flareon Ex", "165.00")
	require.NoError(t, err)

	assert.Empty(t, market.collectiblesOf(testSellerID))
	buyerCards := market.collectiblesOf(testBuyerID)
	require.Len(t, buyerCards, 1)
	assert.Equal(t, "Flareon Ex (Graded)", buyerCards[0].Name, "listing name is canonical")
}

func TestTradeTransferDegradedPathWithoutMatch(t *testing.T) {
	market, listingID := setupTrade(t)
	market.addCollectible(testSellerID, "Vaporeon Ex")

	err := ExecuteTradeTransfer(market, listingID, testBuyerID, testSellerID, "Flareon Ex", "165.00")
	require.NoError(t, err)

	// Seller keeps the unrelated card; the buyer gets a record built from
	// the listing alone.
	assert.Len(t, market.collectiblesOf(testSellerID), 1)
	buyerCards := market.collectiblesOf(testBuyerID)
	require.Len(t, buyerCards, 1)
	assert.Equal(t, "Flareon Ex", buyerCards[0].Name)
	assert.Equal(t, 1, market.orderCount())
}

func TestTradeTransferUnparsableAmountFallsBackToListingPrice(t *testing.T) {
	market, listingID := setupTrade(t)
	market.addCollectible(testSellerID, "Flareon Ex")

	err := ExecuteTradeTransfer(market, listingID, testBuyerID, testSellerID, "Flareon Ex", "not-a-number")
	require.NoError(t, err)

	require.Equal(t, 1, market.orderCount())
	assert.Equal(t, 150.00, market.orders[0].Price)
}

func TestTradeTransferListingNotFoundAborts(t *testing.T) {
	market, _ := setupTrade(t)
	market.addCollectible(testSellerID, "Flareon Ex")

	err := ExecuteTradeTransfer(market, 9999, testBuyerID, testSellerID, "Flareon Ex", "165.00")
	require.Error(t, err)

	assert.Empty(t, market.collectiblesOf(testBuyerID))
	assert.Len(t, market.collectiblesOf(testSellerID), 1)
	assert.Equal(t, 0, market.orderCount())
}

func TestTradeTransferMissingUserAborts(t *testing.T) {
	market, listingID := setupTrade(t)

	err := ExecuteTradeTransfer(market, listingID, 555, testSellerID, "Flareon Ex", "165.00")
	require.Error(t, err)
	assert.Equal(t, 0, market.orderCount())

	listing, _ := market.ListingByID(listingID)
	assert.True(t, listing.IsActive, "no partial side effects before the abort point")
}

func TestTradeTransferMissingStoreAborts(t *testing.T) {
	market := newFakeMarket()
	market.addUser(testBuyerID, "buyer@example.com")
	market.addUser(testSellerID, "seller@example.com")
	listing := market.addListing(testSellerID, "Flareon Ex", 150.00)

	err := ExecuteTradeTransfer(market, listing.ID, testBuyerID, testSellerID, "Flareon Ex", "165.00")
	require.Error(t, err)
	assert.Equal(t, 0, market.orderCount())
}

func TestTradeTransferDuplicateInvocationIsIdempotent(t *testing.T) {
	market, listingID := setupTrade(t)
	market.addCollectible(testSellerID, "Flareon Ex")

	require.NoError(t, ExecuteTradeTransfer(market, listingID, testBuyerID, testSellerID, "Flareon Ex", "165.00"))
	require.NoError(t, ExecuteTradeTransfer(market, listingID, testBuyerID, testSellerID, "Flareon Ex", "165.00"))

	assert.Equal(t, 1, market.orderCount(), "a replayed transfer must not create a second order")
	assert.Len(t, market.collectiblesOf(testBuyerID), 1)
	assert.Empty(t, market.collectiblesOf(testSellerID))

	store, _ := market.StoreByUserID(testSellerID)
	assert.Equal(t, 1, market.salesCounts[store.ID])
}

func TestTradeTransferReplayAfterOrderFailure(t *testing.T) {
	market, listingID := setupTrade(t)
	market.addCollectible(testSellerID, "Flareon Ex")

	// First run moves the card but fails to write the order.
	market.insertOrderErr = errNotFound
	err := ExecuteTradeTransfer(market, listingID, testBuyerID, testSellerID, "Flareon Ex", "165.00")
	require.Error(t, err)
	assert.Equal(t, 0, market.orderCount())
	assert.Len(t, market.collectiblesOf(testBuyerID), 1)

	// Operator replay completes the remaining bookkeeping without
	// duplicating the card move.
	market.insertOrderErr = nil
	require.NoError(t, ExecuteTradeTransfer(market, listingID, testBuyerID, testSellerID, "Flareon Ex", "165.00"))
	assert.Equal(t, 1, market.orderCount())
	assert.Len(t, market.collectiblesOf(testBuyerID), 1)
}

func TestGenerateOrderNumberUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		number := GenerateOrderNumber()
		assert.False(t, seen[number], "order number %s repeated", number)
		seen[number] = true
	}
}
