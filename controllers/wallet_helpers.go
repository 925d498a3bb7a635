package controllers

import (
	"fmt"

	"github.com/cardnest/CardNest/config"
	"github.com/cardnest/CardNest/models"
)

// Helper function to get or create a wallet for a user
func getOrCreateWallet(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := config.DB.Where("user_id = ?", userID).First(&wallet).Error
	if err != nil {
		wallet = models.Wallet{
			UserID:  userID,
			Balance: 0,
		}
		if err := config.DB.Create(&wallet).Error; err != nil {
			return nil, err
		}
	}
	return &wallet, nil
}

// Helper function to create a wallet transaction
func createWalletTransaction(walletID uint, amount float64, transactionType, description string, orderID *uint, reference string) (*models.WalletTransaction, error) {
	transaction := models.WalletTransaction{
		WalletID:    walletID,
		Amount:      amount,
		Type:        transactionType,
		Description: description,
		OrderID:     orderID,
		Reference:   reference,
		Status:      models.TransactionStatusCompleted,
	}
	if err := config.DB.Create(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// Helper function to update wallet balance
func updateWalletBalance(walletID uint, amount float64, transactionType string) error {
	var wallet models.Wallet
	if err := config.DB.First(&wallet, walletID).Error; err != nil {
		return err
	}

	switch transactionType {
	case models.TransactionTypeCredit:
		wallet.Balance += amount
	case models.TransactionTypeDebit:
		if wallet.Balance < amount {
			return fmt.Errorf("insufficient balance")
		}
		wallet.Balance -= amount
	}

	return config.DB.Save(&wallet).Error
}
