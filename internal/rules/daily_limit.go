package rules

import (
	"context"
	"fmt"
	"time"

	"vigil/internal/config"
	"vigil/internal/models"
)

// DailyLimitRule sums a user's spending over the trailing 24 hours,
// including the transaction under evaluation. It targets structuring:
// amounts split to stay under per-transaction reporting thresholds still
// accumulate here.
type DailyLimitRule struct {
	baseRule
	mediumLimit float64
	highLimit   float64
}

func NewDailyLimitRule(cfg *config.MonitorConfig) *DailyLimitRule {
	return &DailyLimitRule{
		baseRule:    baseRule{name: "DAILY_LIMIT", enabled: true},
		mediumLimit: cfg.DailyLimitMedium,
		highLimit:   cfg.DailyLimitHigh,
	}
}

func (r *DailyLimitRule) Evaluate(ctx context.Context, txn *models.Transaction, history HistoryReader) (*Finding, error) {
	now := txn.Timestamp
	recent, err := history.FindInWindow(ctx, txn.UserID, now.Add(-24*time.Hour), now)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, t := range recent {
		total += t.Amount
	}

	switch {
	case total > r.highLimit:
		return &Finding{
			RuleName: r.name,
			Severity: models.SeverityHigh,
			Details: fmt.Sprintf("Total spending %s in 24h exceeds high limit of %s (%d transactions)",
				formatAmount(total), formatAmount(r.highLimit), len(recent)),
		}, nil
	case total > r.mediumLimit:
		return &Finding{
			RuleName: r.name,
			Severity: models.SeverityMedium,
			Details: fmt.Sprintf("Total spending %s in 24h exceeds medium limit of %s (%d transactions)",
				formatAmount(total), formatAmount(r.mediumLimit), len(recent)),
		}, nil
	}
	return nil, nil
}
