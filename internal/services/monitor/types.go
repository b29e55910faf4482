package monitor

import (
	"time"

	"vigil/internal/models"
)

// Transaction statuses returned by Process.
const (
	StatusApproved = "APPROVED"
	StatusFlagged  = "FLAGGED"
)

// ProcessInput is a validated ingestion request. TransactionID and
// Timestamp are optional; missing values are assigned at processing time.
type ProcessInput struct {
	TransactionID    string
	UserID           string
	Amount           float64
	MerchantID       string
	MerchantCategory string
	PaymentMethod    string
	Timestamp        *time.Time
	Location         string
	IsInternational  bool
	MerchantCountry  string
}

// Result is the verdict for one processed transaction.
type Result struct {
	TransactionID string         `json:"transaction_id"`
	Status        string         `json:"status"`
	Alerts        []models.Alert `json:"alerts"`
	AlertCount    int            `json:"alert_count"`
}

// UserStatistics aggregates a user's transaction history. First/Last are
// derived from the newest-first repository ordering.
type UserStatistics struct {
	UserID            string     `json:"user_id"`
	TotalTransactions int        `json:"total_transactions"`
	TotalAmount       float64    `json:"total_amount"`
	AverageAmount     float64    `json:"average_amount"`
	FirstTransaction  *time.Time `json:"first_transaction,omitempty"`
	LastTransaction   *time.Time `json:"last_transaction,omitempty"`
}

// DailyReport aggregates one calendar day of screening activity.
type DailyReport struct {
	Date              string         `json:"date"`
	TotalTransactions int            `json:"total_transactions"`
	TotalVolume       float64        `json:"total_volume"`
	AlertsTriggered   int            `json:"alerts_triggered"`
	AlertsBySeverity  map[string]int `json:"alerts_by_severity"`
	AlertsByRule      map[string]int `json:"alerts_by_rule"`
}
