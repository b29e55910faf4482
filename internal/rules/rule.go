// Package rules contains the fraud/AML detection rules. Each rule inspects
// one transaction plus the user's transaction history and yields at most one
// finding. Rules are pure with respect to the store: they only read, and a
// "no finding" outcome is a normal nil return, never an error.
package rules

import (
	"context"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"vigil/internal/models"
)

// Finding is the transient result of a single rule evaluation. It is
// consumed immediately to build an alert and never persisted as-is.
type Finding struct {
	RuleName string
	Severity string
	Details  string
}

// HistoryReader is the slice of the store a rule may touch: inclusive
// windowed queries over a user's past transactions, newest first.
//
// The transaction under evaluation is persisted before rules run, so a
// window ending at its timestamp includes it. Velocity and daily-limit
// thresholds are calibrated to that; do not compensate for it here.
type HistoryReader interface {
	FindInWindow(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error)
}

// Rule is a single detection policy. Implementations hold no mutable state
// beyond the enabled flag and may be invoked any number of times without
// side effects.
type Rule interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	Evaluate(ctx context.Context, txn *models.Transaction, history HistoryReader) (*Finding, error)
}

type baseRule struct {
	name    string
	enabled bool
}

func (r *baseRule) Name() string             { return r.name }
func (r *baseRule) Enabled() bool            { return r.enabled }
func (r *baseRule) SetEnabled(enabled bool) { r.enabled = enabled }

// formatAmount renders an amount for alert detail text, rounded to whole
// units with thousands separators: 600000 -> "₹600,000".
func formatAmount(v float64) string {
	return "₹" + humanize.Comma(int64(math.Round(v)))
}
