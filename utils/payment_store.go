package utils

import (
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/cardnest/CardNest/config"
	"github.com/cardnest/CardNest/models"
	"gorm.io/gorm"
)

// PaymentPatch carries a partial update for a payment record. Zero values
// mean "not supplied": a merge never erases previously known fields.
type PaymentPatch struct {
	Status           string
	GatewayPaymentID string
	Amount           string
	ItemName         string
	BuyerEmail       string
	ListingID        uint
	BuyerID          uint
	SellerID         uint
	Verified         *bool
}

// PaymentStore is the durable keyed store for payment records. All
// mutations for a given payment ID are serialized through a per-key lock.
type PaymentStore interface {
	Create(payment *models.Payment) error
	// Get returns nil without error when the payment ID is unknown.
	Get(paymentID string) (*models.Payment, error)
	// Merge upserts: absent records are created, present records are
	// shallow-merged with the patch. Status never leaves a terminal state.
	Merge(paymentID string, patch PaymentPatch) (*models.Payment, error)
	// TryMarkTransferred is the transfer gate: it flips the transferred
	// marker on a complete, not-yet-transferred record and reports whether
	// this caller won the transition. Exactly one caller per payment ID
	// ever sees true.
	TryMarkTransferred(paymentID string) (bool, error)
}

// Payments is the process-wide payment store, swapped out in tests.
var Payments PaymentStore = NewMemoryPaymentStore()

// keyMutex serializes work per payment ID through a fixed set of shards.
type keyMutex struct {
	shards [64]sync.Mutex
}

func (m *keyMutex) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	mu := &m.shards[h.Sum32()%uint32(len(m.shards))]
	mu.Lock()
	return mu
}

func applyPatch(payment *models.Payment, patch PaymentPatch) {
	if patch.Status != "" && patch.Status != payment.Status {
		if payment.IsTerminal() {
			LogError("Ignoring status change %s -> %s for terminal payment %s",
				payment.Status, patch.Status, payment.PaymentID)
		} else {
			payment.Status = patch.Status
		}
	}
	if patch.GatewayPaymentID != "" {
		payment.GatewayPaymentID = patch.GatewayPaymentID
	}
	if patch.Amount != "" {
		payment.Amount = patch.Amount
	}
	if patch.ItemName != "" {
		payment.ItemName = patch.ItemName
	}
	if patch.BuyerEmail != "" {
		payment.BuyerEmail = patch.BuyerEmail
	}
	if patch.ListingID != 0 {
		payment.ListingID = patch.ListingID
	}
	if patch.BuyerID != 0 {
		payment.BuyerID = patch.BuyerID
	}
	if patch.SellerID != 0 {
		payment.SellerID = patch.SellerID
	}
	if patch.Verified != nil {
		payment.Verified = *patch.Verified
	}
	payment.UpdatedAt = time.Now()
}

// GormPaymentStore persists payment records through the shared database
// handle. The per-key mutex serializes read-modify-write cycles within
// this process; the unique index on payment_id backstops duplicate creates.
type GormPaymentStore struct {
	locks keyMutex
}

// NewGormPaymentStore returns a database-backed payment store.
func NewGormPaymentStore() *GormPaymentStore {
	return &GormPaymentStore{}
}

func (s *GormPaymentStore) Create(payment *models.Payment) error {
	if payment.PaymentID == "" {
		return errors.New("payment ID is required")
	}
	mu := s.locks.lock(payment.PaymentID)
	defer mu.Unlock()
	return config.DB.Create(payment).Error
}

func (s *GormPaymentStore) Get(paymentID string) (*models.Payment, error) {
	var payment models.Payment
	err := config.DB.Where("payment_id = ?", paymentID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *GormPaymentStore) Merge(paymentID string, patch PaymentPatch) (*models.Payment, error) {
	mu := s.locks.lock(paymentID)
	defer mu.Unlock()

	payment, err := s.Get(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		payment = &models.Payment{
			PaymentID: paymentID,
			Status:    models.PaymentStatusPending,
			CreatedAt: time.Now(),
		}
		applyPatch(payment, patch)
		if err := config.DB.Create(payment).Error; err != nil {
			return nil, err
		}
		return payment, nil
	}
	applyPatch(payment, patch)
	if err := config.DB.Save(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *GormPaymentStore) TryMarkTransferred(paymentID string) (bool, error) {
	mu := s.locks.lock(paymentID)
	defer mu.Unlock()

	payment, err := s.Get(paymentID)
	if err != nil {
		return false, err
	}
	if payment == nil {
		return false, errors.New("payment not found")
	}
	if payment.Status != models.PaymentStatusComplete || payment.Transferred {
		return false, nil
	}
	payment.Transferred = true
	payment.UpdatedAt = time.Now()
	if err := config.DB.Save(payment).Error; err != nil {
		return false, err
	}
	return true, nil
}

// MemoryPaymentStore keeps payment records in memory. It is the store used
// in tests and the fallback for a single instance running without a
// database; records do not survive a restart.
type MemoryPaymentStore struct {
	locks    keyMutex
	mu       sync.RWMutex
	payments map[string]*models.Payment
}

// NewMemoryPaymentStore returns an empty in-memory payment store.
func NewMemoryPaymentStore() *MemoryPaymentStore {
	return &MemoryPaymentStore{payments: make(map[string]*models.Payment)}
}

func (s *MemoryPaymentStore) Create(payment *models.Payment) error {
	if payment.PaymentID == "" {
		return errors.New("payment ID is required")
	}
	mu := s.locks.lock(payment.PaymentID)
	defer mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.payments[payment.PaymentID]; exists {
		return errors.New("payment already exists")
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	payment.UpdatedAt = payment.CreatedAt
	clone := *payment
	s.payments[payment.PaymentID] = &clone
	return nil
}

func (s *MemoryPaymentStore) Get(paymentID string) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payment, ok := s.payments[paymentID]
	if !ok {
		return nil, nil
	}
	clone := *payment
	return &clone, nil
}

func (s *MemoryPaymentStore) Merge(paymentID string, patch PaymentPatch) (*models.Payment, error) {
	mu := s.locks.lock(paymentID)
	defer mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[paymentID]
	if !ok {
		payment = &models.Payment{
			PaymentID: paymentID,
			Status:    models.PaymentStatusPending,
			CreatedAt: time.Now(),
		}
		s.payments[paymentID] = payment
	}
	applyPatch(payment, patch)
	clone := *payment
	return &clone, nil
}

func (s *MemoryPaymentStore) TryMarkTransferred(paymentID string) (bool, error) {
	mu := s.locks.lock(paymentID)
	defer mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[paymentID]
	if !ok {
		return false, errors.New("payment not found")
	}
	if payment.Status != models.PaymentStatusComplete || payment.Transferred {
		return false, nil
	}
	payment.Transferred = true
	payment.UpdatedAt = time.Now()
	return true, nil
}
