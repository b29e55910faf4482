package rules

import (
	"context"
	"sort"
	"time"

	"vigil/internal/config"
	"vigil/internal/models"
)

// stubHistory answers window queries from an in-memory slice, mimicking the
// repository contract: inclusive bounds, newest first, empty slice on no
// match.
type stubHistory struct {
	txns []models.Transaction
	err  error
}

func (s *stubHistory) FindInWindow(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Transaction
	for _, t := range s.txns {
		if t.UserID == userID && !t.Timestamp.Before(start) && !t.Timestamp.After(end) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func testConfig() *config.MonitorConfig {
	return &config.MonitorConfig{
		AmountThresholdMedium: 200000,
		AmountThresholdHigh:   500000,
		VelocityMaxPerMinute:  3,
		VelocityMaxPerHour:    5,
		VelocityMaxPerDay:     10,
		DailyLimitMedium:      500000,
		DailyLimitHigh:        1000000,
		HighRiskMerchants:     []string{"crypto_exchange", "gambling", "betting", "wire_transfer", "cash_advance", "money_transfer"},
		MediumRiskMerchants:   []string{"jewelry", "precious_metals", "luxury_goods"},
		RapidSuccessionWindow: 60 * time.Second,
		RapidSuccessionGap:    30 * time.Second,
	}
}

func makeTxn(id, userID string, amount float64, category string, ts time.Time) models.Transaction {
	return models.Transaction{
		TransactionID:    id,
		UserID:           userID,
		Amount:           amount,
		MerchantID:       "MERCHANT_ABC",
		MerchantCategory: category,
		PaymentMethod:    models.PaymentMethodCreditCard,
		Timestamp:        ts,
	}
}
