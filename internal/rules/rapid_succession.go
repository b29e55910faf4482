package rules

import (
	"context"
	"fmt"
	"time"

	"vigil/internal/config"
	"vigil/internal/models"
)

// RapidSuccessionRule looks at the trailing 60-second window. The window
// query returns the transaction under evaluation too (it is persisted before
// rules run), so it is filtered out by id before counting the others.
//
// Two or more others in the window means this is at least the third
// transaction in a minute: HIGH, with no finer spacing check. Exactly one
// other within the window is MEDIUM only when the gap is under 30 seconds.
type RapidSuccessionRule struct {
	baseRule
	window time.Duration
	gap    time.Duration
}

func NewRapidSuccessionRule(cfg *config.MonitorConfig) *RapidSuccessionRule {
	return &RapidSuccessionRule{
		baseRule: baseRule{name: "RAPID_SUCCESSION", enabled: true},
		window:   cfg.RapidSuccessionWindow,
		gap:      cfg.RapidSuccessionGap,
	}
}

func (r *RapidSuccessionRule) Evaluate(ctx context.Context, txn *models.Transaction, history HistoryReader) (*Finding, error) {
	now := txn.Timestamp
	recent, err := history.FindInWindow(ctx, txn.UserID, now.Add(-r.window), now)
	if err != nil {
		return nil, err
	}

	var others []models.Transaction
	for _, t := range recent {
		if t.TransactionID != txn.TransactionID {
			others = append(others, t)
		}
	}

	if len(others) >= 2 {
		return &Finding{
			RuleName: r.name,
			Severity: models.SeverityHigh,
			Details: fmt.Sprintf("%d transactions within %d seconds",
				len(others)+1, int(r.window.Seconds())),
		}, nil
	}

	if len(others) == 1 {
		elapsed := now.Sub(others[0].Timestamp)
		if elapsed < r.gap {
			return &Finding{
				RuleName: r.name,
				Severity: models.SeverityMedium,
				Details:  fmt.Sprintf("2 transactions within %.0f seconds", elapsed.Seconds()),
			}, nil
		}
	}

	return nil, nil
}
