package rules

import (
	"context"
	"fmt"
	"strings"

	"vigil/internal/config"
	"vigil/internal/models"
)

// HighRiskMerchantRule matches the merchant category against configured
// risk lists. Comparison lowercases both sides at evaluation time, so the
// lists may be configured in any case.
type HighRiskMerchantRule struct {
	baseRule
	highRiskCategories   []string
	mediumRiskCategories []string
}

func NewHighRiskMerchantRule(cfg *config.MonitorConfig) *HighRiskMerchantRule {
	return &HighRiskMerchantRule{
		baseRule:             baseRule{name: "HIGH_RISK_MERCHANT", enabled: true},
		highRiskCategories:   cfg.HighRiskMerchants,
		mediumRiskCategories: cfg.MediumRiskMerchants,
	}
}

func (r *HighRiskMerchantRule) Evaluate(ctx context.Context, txn *models.Transaction, history HistoryReader) (*Finding, error) {
	category := strings.ToLower(txn.MerchantCategory)

	if containsFold(r.highRiskCategories, category) {
		return &Finding{
			RuleName: r.name,
			Severity: models.SeverityHigh,
			Details:  fmt.Sprintf("Transaction with high-risk merchant category: %s", txn.MerchantCategory),
		}, nil
	}
	if containsFold(r.mediumRiskCategories, category) {
		return &Finding{
			RuleName: r.name,
			Severity: models.SeverityMedium,
			Details:  fmt.Sprintf("Transaction with medium-risk merchant category: %s", txn.MerchantCategory),
		}, nil
	}
	return nil, nil
}

func containsFold(list []string, lowered string) bool {
	for _, c := range list {
		if strings.ToLower(c) == lowered {
			return true
		}
	}
	return false
}
