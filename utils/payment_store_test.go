package utils

import (
	"sync"
	"testing"

	"github.com/cardnest/CardNest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryPaymentStore()

	err := store.Create(&models.Payment{PaymentID: "pay-1", Status: models.PaymentStatusPending})
	require.NoError(t, err)

	payment, err := store.Get("pay-1")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)

	missing, err := store.Get("pay-unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, store.Create(&models.Payment{PaymentID: "pay-1"}), "duplicate create must fail")
	assert.Error(t, store.Create(&models.Payment{}), "payment ID is required")
}

func TestMergeUpsertsMissingRecord(t *testing.T) {
	store := NewMemoryPaymentStore()

	payment, err := store.Merge("pay-new", PaymentPatch{Status: models.PaymentStatusComplete})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusComplete, payment.Status)
	assert.Equal(t, "pay-new", payment.PaymentID)
}

func TestMergePreservesRelationIDs(t *testing.T) {
	store := NewMemoryPaymentStore()
	require.NoError(t, store.Create(&models.Payment{
		PaymentID: "pay-1",
		Status:    models.PaymentStatusPending,
		ListingID: 11,
		BuyerID:   22,
		SellerID:  33,
	}))

	// A later merge that omits the relation IDs must not erase them.
	payment, err := store.Merge("pay-1", PaymentPatch{
		Status:           models.PaymentStatusComplete,
		GatewayPaymentID: "pf-900",
		Amount:           "165.00",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(11), payment.ListingID)
	assert.Equal(t, uint(22), payment.BuyerID)
	assert.Equal(t, uint(33), payment.SellerID)
	assert.Equal(t, "pf-900", payment.GatewayPaymentID)
	assert.Equal(t, "165.00", payment.Amount)
}

func TestMergeNeverLeavesTerminalState(t *testing.T) {
	store := NewMemoryPaymentStore()
	require.NoError(t, store.Create(&models.Payment{
		PaymentID: "pay-1",
		Status:    models.PaymentStatusComplete,
	}))

	payment, err := store.Merge("pay-1", PaymentPatch{Status: models.PaymentStatusFailed})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusComplete, payment.Status)

	require.NoError(t, store.Create(&models.Payment{
		PaymentID: "pay-2",
		Status:    models.PaymentStatusCancelled,
	}))
	payment, err = store.Merge("pay-2", PaymentPatch{Status: models.PaymentStatusComplete})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCancelled, payment.Status)
}

func TestTryMarkTransferredGate(t *testing.T) {
	store := NewMemoryPaymentStore()
	require.NoError(t, store.Create(&models.Payment{
		PaymentID: "pay-1",
		Status:    models.PaymentStatusPending,
	}))

	// Not complete yet: gate stays closed.
	won, err := store.TryMarkTransferred("pay-1")
	require.NoError(t, err)
	assert.False(t, won)

	_, err = store.Merge("pay-1", PaymentPatch{Status: models.PaymentStatusComplete})
	require.NoError(t, err)

	won, err = store.TryMarkTransferred("pay-1")
	require.NoError(t, err)
	assert.True(t, won)

	won, err = store.TryMarkTransferred("pay-1")
	require.NoError(t, err)
	assert.False(t, won, "the transferred marker must latch")

	_, err = store.TryMarkTransferred("pay-unknown")
	assert.Error(t, err)
}

func TestTryMarkTransferredConcurrent(t *testing.T) {
	store := NewMemoryPaymentStore()
	require.NoError(t, store.Create(&models.Payment{
		PaymentID: "pay-1",
		Status:    models.PaymentStatusComplete,
	}))

	const workers = 50
	var wins int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			won, err := store.TryMarkTransferred("pay-1")
			if err == nil && won {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins, "exactly one caller may win the transfer gate")
}

func TestConcurrentMergesAreSerialized(t *testing.T) {
	store := NewMemoryPaymentStore()
	require.NoError(t, store.Create(&models.Payment{
		PaymentID: "pay-1",
		Status:    models.PaymentStatusPending,
		ListingID: 7,
	}))

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Merge("pay-1", PaymentPatch{Amount: "165.00"})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Merge("pay-1", PaymentPatch{GatewayPaymentID: "pf-1"})
		}()
	}
	wg.Wait()

	payment, err := store.Get("pay-1")
	require.NoError(t, err)
	assert.Equal(t, "165.00", payment.Amount)
	assert.Equal(t, "pf-1", payment.GatewayPaymentID)
	assert.Equal(t, uint(7), payment.ListingID, "concurrent merges must not erase known fields")
}
