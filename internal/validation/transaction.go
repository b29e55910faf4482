package validation

import (
	"fmt"
	"strings"
	"time"

	"vigil/internal/models"
)

// Boundary limits for transaction ingestion.
const (
	UserIDMinLen = 3
	UserIDMaxLen = 100
	MaxAmount    = 100000000
)

// Timestamp layouts accepted on ingestion. RFC 3339 first, then the
// zone-less ISO form clients commonly send.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// TransactionInput carries the raw ingestion fields subject to validation.
type TransactionInput struct {
	UserID           string
	Amount           float64
	MerchantID       string
	MerchantCategory string
	PaymentMethod    string
	Timestamp        string
}

// ValidateTransaction checks an ingestion request against the boundary
// rules and returns the first violation.
func ValidateTransaction(in TransactionInput) error {
	v := New()

	v.Check(in.UserID != "", "user_id", "user_id is required")
	if in.UserID != "" {
		v.Check(len(in.UserID) >= UserIDMinLen, "user_id",
			fmt.Sprintf("user_id must be at least %d characters", UserIDMinLen))
		v.Check(len(in.UserID) <= UserIDMaxLen, "user_id",
			fmt.Sprintf("user_id must be at most %d characters", UserIDMaxLen))
	}

	v.Check(in.Amount > 0, "amount", "amount must be greater than 0")
	v.Check(in.Amount <= MaxAmount, "amount",
		fmt.Sprintf("amount exceeds maximum limit of %d", MaxAmount))

	v.Check(len(in.MerchantID) >= 3, "merchant_id", "merchant_id must be at least 3 characters")
	v.Check(len(in.MerchantCategory) >= 3, "merchant_category", "merchant_category must be at least 3 characters")

	v.Check(models.IsValidPaymentMethod(in.PaymentMethod), "payment_method",
		"payment_method must be one of: "+strings.Join(models.PaymentMethods, ", "))

	if in.Timestamp != "" {
		if _, err := ParseTimestamp(in.Timestamp); err != nil {
			v.AddError("timestamp", "timestamp must be an ISO 8601 date-time")
		}
	}

	return v.Err()
}

// ParseTimestamp parses a client-supplied timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
