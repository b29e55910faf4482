// Package engine runs the fixed catalog of detection rules against a
// transaction and collects their findings.
package engine

import (
	"context"
	"fmt"
	"sync"

	"vigil/internal/config"
	"vigil/internal/models"
	"vigil/internal/rules"
)

// Engine holds the ordered rule catalog. The catalog is built once at
// startup and never discovered dynamically; only the per-rule enabled flags
// change at runtime.
type Engine struct {
	mu      sync.RWMutex
	catalog []rules.Rule
}

// New builds the engine with the standard catalog in evaluation order.
func New(cfg *config.MonitorConfig) *Engine {
	return &Engine{
		catalog: []rules.Rule{
			rules.NewAmountThresholdRule(cfg),
			rules.NewVelocityRule(cfg),
			rules.NewDailyLimitRule(cfg),
			rules.NewHighRiskMerchantRule(cfg),
			rules.NewRapidSuccessionRule(cfg),
		},
	}
}

// Evaluate runs every enabled rule against the transaction in catalog order
// and returns all findings. Rules are independent: one rule firing never
// suppresses another. A store failure inside any rule aborts the evaluation.
func (e *Engine) Evaluate(ctx context.Context, txn *models.Transaction, history rules.HistoryReader) ([]rules.Finding, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var findings []rules.Finding
	for _, rule := range e.catalog {
		if !rule.Enabled() {
			continue
		}
		finding, err := rule.Evaluate(ctx, txn, history)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
		if finding != nil {
			findings = append(findings, *finding)
		}
	}
	return findings, nil
}

// EnableRule enables the named rule, reporting whether it exists.
func (e *Engine) EnableRule(name string) bool {
	return e.setEnabled(name, true)
}

// DisableRule disables the named rule, reporting whether it exists.
func (e *Engine) DisableRule(name string) bool {
	return e.setEnabled(name, false)
}

func (e *Engine) setEnabled(name string, enabled bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, rule := range e.catalog {
		if rule.Name() == name {
			rule.SetEnabled(enabled)
			return true
		}
	}
	return false
}

// ActiveRules returns the names of the currently enabled rules in catalog
// order. Used for startup diagnostics, not hot-reload.
func (e *Engine) ActiveRules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.catalog))
	for _, rule := range e.catalog {
		if rule.Enabled() {
			names = append(names, rule.Name())
		}
	}
	return names
}
