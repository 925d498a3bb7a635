package utils

import (
	"errors"
	"sync"

	"github.com/cardnest/CardNest/config"
	"github.com/cardnest/CardNest/models"
)

func liveCredsForTest() config.PayFastCredentials {
	return config.PayFastCredentials{
		MerchantID:  "20000200",
		MerchantKey: "livekey",
		Passphrase:  "live-secret",
	}
}

func sandboxCredsForTest() config.PayFastCredentials {
	return config.PayFastCredentials{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		Passphrase:  "s3cret",
		Sandbox:     true,
	}
}

// useTestConfig points the package globals at an in-memory store and a
// fake market for the duration of a test.
func useTestConfig(market *fakeMarket) *MemoryPaymentStore {
	config.App = &config.Config{
		PayFastEnv:     "sandbox",
		PayFastLive:    liveCredsForTest(),
		PayFastSandbox: sandboxCredsForTest(),
		JWTSecret:      "test-secret",
	}
	store := NewMemoryPaymentStore()
	Payments = store
	if market != nil {
		Market = market
	}
	return store
}

var errNotFound = errors.New("record not found")

// fakeMarket is an in-memory TradeData for tests.
type fakeMarket struct {
	mu           sync.Mutex
	nextID       uint
	listings     map[uint]*models.Listing
	users        map[uint]*models.User
	stores       map[uint]*models.Store // keyed by seller user ID
	collectibles map[uint]*models.Collectible
	orders       []models.Order
	salesCounts  map[uint]int

	insertOrderErr error
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		nextID:       1000,
		listings:     make(map[uint]*models.Listing),
		users:        make(map[uint]*models.User),
		stores:       make(map[uint]*models.Store),
		collectibles: make(map[uint]*models.Collectible),
		salesCounts:  make(map[uint]int),
	}
}

func (m *fakeMarket) id() uint {
	m.nextID++
	return m.nextID
}

func (m *fakeMarket) addUser(id uint, email string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := &models.User{Email: email}
	user.ID = id
	m.users[id] = user
	return user
}

func (m *fakeMarket) addStore(sellerID uint, name string) *models.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	store := &models.Store{UserID: sellerID, Name: name}
	store.ID = m.id()
	m.stores[sellerID] = store
	return store
}

func (m *fakeMarket) addListing(sellerID uint, itemName string, price float64) *models.Listing {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing := &models.Listing{
		SellerID: sellerID,
		ItemName: itemName,
		ImageURL: "https://img.example/" + itemName,
		Price:    price,
		IsActive: true,
	}
	listing.ID = m.id()
	m.listings[listing.ID] = listing
	return listing
}

func (m *fakeMarket) addCollectible(userID uint, name string) *models.Collectible {
	m.mu.Lock()
	defer m.mu.Unlock()
	collectible := &models.Collectible{
		UserID:    userID,
		Name:      name,
		CardType:  "Fire",
		SetName:   "Evolutions",
		Grade:     "PSA 9",
		Condition: "Near Mint",
	}
	collectible.ID = m.id()
	m.collectibles[collectible.ID] = collectible
	return collectible
}

func (m *fakeMarket) ListingByID(id uint) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing, ok := m.listings[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *listing
	return &clone, nil
}

func (m *fakeMarket) ActiveListingsByName(name string) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Listing
	for _, listing := range m.listings {
		if listing.IsActive && sameCardName(listing.ItemName, name) {
			out = append(out, *listing)
		}
	}
	return out, nil
}

func (m *fakeMarket) DeactivateListing(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing, ok := m.listings[id]
	if !ok {
		return errNotFound
	}
	listing.IsActive = false
	return nil
}

func (m *fakeMarket) UserByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *fakeMarket) UserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, errNotFound
}

func (m *fakeMarket) StoreByUserID(userID uint) (*models.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	store, ok := m.stores[userID]
	if !ok {
		return nil, errNotFound
	}
	clone := *store
	return &clone, nil
}

func (m *fakeMarket) CollectiblesByUser(userID uint) ([]models.Collectible, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Collectible
	for _, collectible := range m.collectibles {
		if collectible.UserID == userID {
			out = append(out, *collectible)
		}
	}
	return out, nil
}

func (m *fakeMarket) InsertCollectible(collectible *models.Collectible) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	collectible.ID = m.id()
	clone := *collectible
	m.collectibles[collectible.ID] = &clone
	return nil
}

func (m *fakeMarket) DeleteCollectible(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collectibles[id]; !ok {
		return errNotFound
	}
	delete(m.collectibles, id)
	return nil
}

func (m *fakeMarket) InsertOrder(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertOrderErr != nil {
		return m.insertOrderErr
	}
	order.ID = m.id()
	m.orders = append(m.orders, *order)
	return nil
}

func (m *fakeMarket) OrderByListingID(listingID uint) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ListingID == listingID {
			clone := m.orders[i]
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *fakeMarket) IncrementStoreSales(storeID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.salesCounts[storeID]++
	return nil
}

func (m *fakeMarket) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *fakeMarket) collectiblesOf(userID uint) []models.Collectible {
	out, _ := m.CollectiblesByUser(userID)
	return out
}
