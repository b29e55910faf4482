package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Supported payment methods.
const (
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodUPI        = "upi"
	PaymentMethodNetBanking = "net_banking"
	PaymentMethodWallet     = "wallet"
	PaymentMethodCash       = "cash"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []string{
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodUPI,
	PaymentMethodNetBanking,
	PaymentMethodWallet,
	PaymentMethodCash,
}

// Transaction is a single screened payment. Rows are append-only: once
// written a transaction is never updated or deleted.
type Transaction struct {
	TransactionID    string    `gorm:"primaryKey;size:64" json:"transaction_id"`
	UserID           string    `gorm:"size:100;not null;index:idx_txn_user_time,priority:1" json:"user_id"`
	Amount           float64   `gorm:"not null" json:"amount"`
	MerchantID       string    `gorm:"size:100;not null" json:"merchant_id"`
	MerchantCategory string    `gorm:"size:100;not null" json:"merchant_category"`
	PaymentMethod    string    `gorm:"size:32;not null" json:"payment_method"`
	Timestamp        time.Time `gorm:"not null;index:idx_txn_user_time,priority:2" json:"timestamp"`
	Location         string    `json:"location,omitempty"`
	IsInternational  bool      `gorm:"default:false" json:"is_international"`
	MerchantCountry  string    `gorm:"size:8;default:'IN'" json:"merchant_country"`
}

// NewTransactionID generates an id in the TXN_XXXXXXXXXXXX format.
func NewTransactionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN_" + strings.ToUpper(hex[:12])
}

// IsValidPaymentMethod reports whether m is an accepted payment method.
func IsValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}
