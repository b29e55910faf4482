package rules

import (
	"context"
	"fmt"

	"vigil/internal/config"
	"vigil/internal/models"
)

// AmountThresholdRule flags single transactions whose amount exceeds a
// static threshold. Both comparisons are strictly greater-than; an amount
// exactly equal to a threshold does not fire.
type AmountThresholdRule struct {
	baseRule
	mediumThreshold float64
	highThreshold   float64
}

func NewAmountThresholdRule(cfg *config.MonitorConfig) *AmountThresholdRule {
	return &AmountThresholdRule{
		baseRule:        baseRule{name: "AMOUNT_THRESHOLD", enabled: true},
		mediumThreshold: cfg.AmountThresholdMedium,
		highThreshold:   cfg.AmountThresholdHigh,
	}
}

func (r *AmountThresholdRule) Evaluate(ctx context.Context, txn *models.Transaction, history HistoryReader) (*Finding, error) {
	switch {
	case txn.Amount > r.highThreshold:
		return &Finding{
			RuleName: r.name,
			Severity: models.SeverityHigh,
			Details: fmt.Sprintf("Amount %s exceeds high threshold of %s",
				formatAmount(txn.Amount), formatAmount(r.highThreshold)),
		}, nil
	case txn.Amount > r.mediumThreshold:
		return &Finding{
			RuleName: r.name,
			Severity: models.SeverityMedium,
			Details: fmt.Sprintf("Amount %s exceeds medium threshold of %s",
				formatAmount(txn.Amount), formatAmount(r.mediumThreshold)),
		}, nil
	}
	return nil, nil
}
