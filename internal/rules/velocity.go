package rules

import (
	"context"
	"fmt"
	"time"

	"vigil/internal/config"
	"vigil/internal/models"
)

// VelocityRule counts a user's transactions over three trailing windows,
// most restrictive first. Once a window trips, the coarser windows are not
// checked. Counts include the transaction under evaluation.
type VelocityRule struct {
	baseRule
	maxPerMinute int
	maxPerHour   int
	maxPerDay    int
}

func NewVelocityRule(cfg *config.MonitorConfig) *VelocityRule {
	return &VelocityRule{
		baseRule:     baseRule{name: "VELOCITY", enabled: true},
		maxPerMinute: cfg.VelocityMaxPerMinute,
		maxPerHour:   cfg.VelocityMaxPerHour,
		maxPerDay:    cfg.VelocityMaxPerDay,
	}
}

func (r *VelocityRule) Evaluate(ctx context.Context, txn *models.Transaction, history HistoryReader) (*Finding, error) {
	now := txn.Timestamp

	lastMinute, err := history.FindInWindow(ctx, txn.UserID, now.Add(-time.Minute), now)
	if err != nil {
		return nil, err
	}
	if len(lastMinute) >= r.maxPerMinute {
		return &Finding{
			RuleName: r.name,
			Severity: models.SeverityCritical,
			Details: fmt.Sprintf("User made %d transactions in last minute (limit: %d)",
				len(lastMinute), r.maxPerMinute),
		}, nil
	}

	lastHour, err := history.FindInWindow(ctx, txn.UserID, now.Add(-time.Hour), now)
	if err != nil {
		return nil, err
	}
	if len(lastHour) >= r.maxPerHour {
		return &Finding{
			RuleName: r.name,
			Severity: models.SeverityHigh,
			Details: fmt.Sprintf("User made %d transactions in last hour (limit: %d)",
				len(lastHour), r.maxPerHour),
		}, nil
	}

	lastDay, err := history.FindInWindow(ctx, txn.UserID, now.Add(-24*time.Hour), now)
	if err != nil {
		return nil, err
	}
	if len(lastDay) >= r.maxPerDay {
		return &Finding{
			RuleName: r.name,
			Severity: models.SeverityMedium,
			Details: fmt.Sprintf("User made %d transactions in last 24 hours (limit: %d)",
				len(lastDay), r.maxPerDay),
		}, nil
	}

	return nil, nil
}
