package monitor

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigil/internal/config"
	"vigil/internal/models"
	"vigil/internal/repositories"
	"vigil/internal/services/alert"
	"vigil/internal/services/engine"
)

// memTxnRepo is an append-only in-memory transaction store with the same
// newest-first ordering contract as the GORM implementation.
type memTxnRepo struct {
	mu   sync.Mutex
	rows []models.Transaction
}

func (r *memTxnRepo) Create(_ context.Context, t *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *t)
	return nil
}

func (r *memTxnRepo) FindByID(_ context.Context, transactionID string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].TransactionID == transactionID {
			t := r.rows[i]
			return &t, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memTxnRepo) FindInWindow(_ context.Context, userID string, start, end time.Time) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, t := range r.rows {
		if t.UserID != userID {
			continue
		}
		if t.Timestamp.Before(start) || t.Timestamp.After(end) {
			continue
		}
		out = append(out, t)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memTxnRepo) List(_ context.Context, userID string, start, end *time.Time) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, t := range r.rows {
		if userID != "" && t.UserID != userID {
			continue
		}
		if start != nil && t.Timestamp.Before(*start) {
			continue
		}
		if end != nil && t.Timestamp.After(*end) {
			continue
		}
		out = append(out, t)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memTxnRepo) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	return r.List(ctx, userID, nil, nil)
}

func sortNewestFirst(txns []models.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Timestamp.After(txns[j].Timestamp)
	})
}

// memAlertRepo is an in-memory alert store.
type memAlertRepo struct {
	mu   sync.Mutex
	rows []models.Alert
}

func (r *memAlertRepo) Create(_ context.Context, a *models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *a)
	return nil
}

func (r *memAlertRepo) FindByID(_ context.Context, alertID string) (*models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].AlertID == alertID {
			a := r.rows[i]
			return &a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memAlertRepo) List(_ context.Context, status, severity string) ([]models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Alert
	for _, a := range r.rows {
		if status != "" && a.Status != status {
			continue
		}
		if severity != "" && a.Severity != severity {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *memAlertRepo) ListInWindow(_ context.Context, start, end time.Time) ([]models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Alert
	for _, a := range r.rows {
		if a.Timestamp.Before(start) || a.Timestamp.After(end) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *memAlertRepo) All(_ context.Context) ([]models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Alert, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *memAlertRepo) UpdateStatus(_ context.Context, alertID, status, resolvedBy, notes string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].AlertID != alertID {
			continue
		}
		r.rows[i].Status = status
		r.rows[i].ResolvedBy = resolvedBy
		r.rows[i].ResolutionNotes = notes
		if status != models.AlertStatusOpen {
			now := time.Now()
			r.rows[i].ResolvedAt = &now
		} else {
			r.rows[i].ResolvedAt = nil
		}
		return true, nil
	}
	return false, nil
}

var (
	_ repositories.TransactionRepository = (*memTxnRepo)(nil)
	_ repositories.AlertRepository       = (*memAlertRepo)(nil)
)

func testConfig() *config.MonitorConfig {
	return &config.MonitorConfig{
		AmountThresholdMedium: 200000,
		AmountThresholdHigh:   500000,
		VelocityMaxPerMinute:  3,
		VelocityMaxPerHour:    5,
		VelocityMaxPerDay:     10,
		DailyLimitMedium:      500000,
		DailyLimitHigh:        1000000,
		HighRiskMerchants:     []string{"crypto_exchange", "gambling", "betting"},
		MediumRiskMerchants:   []string{"jewelry", "luxury_goods"},
		RapidSuccessionWindow: 60 * time.Second,
		RapidSuccessionGap:    30 * time.Second,
	}
}

type testHarness struct {
	txns   *memTxnRepo
	alerts *memAlertRepo
	svc    *Service
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	txns := &memTxnRepo{}
	alerts := &memAlertRepo{}
	svc := NewService(txns, engine.New(testConfig()), alert.NewService(alerts, nil), nil, true)
	return &testHarness{txns: txns, alerts: alerts, svc: svc}
}

func input(userID string, amount float64, category string, ts time.Time) ProcessInput {
	return ProcessInput{
		UserID:           userID,
		Amount:           amount,
		MerchantID:       "MERCHANT_001",
		MerchantCategory: category,
		PaymentMethod:    models.PaymentMethodDebitCard,
		Timestamp:        &ts,
	}
}

func ruleNames(alerts []models.Alert) []string {
	names := make([]string, len(alerts))
	for i, a := range alerts {
		names[i] = a.RuleName
	}
	return names
}

func TestProcess_CleanTransactionApproved(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Process(context.Background(), input("user_123", 5000, "groceries", time.Now()))
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, res.Status)
	assert.Empty(t, res.Alerts)
	assert.Zero(t, res.AlertCount)
	assert.True(t, strings.HasPrefix(res.TransactionID, "TXN_"))
}

func TestProcess_ExplicitTransactionIDKept(t *testing.T) {
	h := newHarness(t)

	in := input("user_123", 5000, "groceries", time.Now())
	in.TransactionID = "TXN_CALLER_PICKED"

	res, err := h.svc.Process(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "TXN_CALLER_PICKED", res.TransactionID)

	stored, err := h.svc.GetTransaction(context.Background(), "TXN_CALLER_PICKED")
	require.NoError(t, err)
	assert.Equal(t, "IN", stored.MerchantCountry)
}

func TestProcess_HighAmountFlagged(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Process(context.Background(), input("user_123", 600000, "electronics", time.Now()))
	require.NoError(t, err)

	assert.Equal(t, StatusFlagged, res.Status)
	// The single 600000 transaction also pushes the 24h total over the
	// daily-limit medium threshold, so two alerts come back.
	assert.Equal(t, []string{"AMOUNT_THRESHOLD", "DAILY_LIMIT"}, ruleNames(res.Alerts))
	assert.Equal(t, 2, res.AlertCount)

	amountAlert := res.Alerts[0]
	assert.Equal(t, models.SeverityHigh, amountAlert.Severity)
	assert.Contains(t, amountAlert.Details, "₹600,000")
	assert.Contains(t, amountAlert.Details, "₹500,000")
	assert.Equal(t, models.AlertStatusOpen, amountAlert.Status)
	assert.Equal(t, res.TransactionID, amountAlert.TransactionID)
}

func TestProcess_HighRiskMerchantStacksWithAmount(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Process(context.Background(), input("user_123", 700000, "crypto_exchange", time.Now()))
	require.NoError(t, err)

	assert.Equal(t, StatusFlagged, res.Status)
	assert.Equal(t, []string{"AMOUNT_THRESHOLD", "DAILY_LIMIT", "HIGH_RISK_MERCHANT"}, ruleNames(res.Alerts))

	bySeverity := map[string]string{}
	for _, a := range res.Alerts {
		bySeverity[a.RuleName] = a.Severity
	}
	assert.Equal(t, models.SeverityHigh, bySeverity["AMOUNT_THRESHOLD"])
	assert.Equal(t, models.SeverityMedium, bySeverity["DAILY_LIMIT"])
	assert.Equal(t, models.SeverityHigh, bySeverity["HIGH_RISK_MERCHANT"])
}

func TestProcess_BurstTriggersVelocityAndRapidSuccession(t *testing.T) {
	h := newHarness(t)
	base := time.Now().Add(-time.Minute)

	var last *Result
	for i := 0; i < 6; i++ {
		res, err := h.svc.Process(context.Background(), input("user_burst", 1000, "groceries", base.Add(time.Duration(i*5)*time.Second)))
		require.NoError(t, err)
		last = res
	}

	assert.Equal(t, StatusFlagged, last.Status)
	names := ruleNames(last.Alerts)
	assert.Contains(t, names, "VELOCITY")
	assert.Contains(t, names, "RAPID_SUCCESSION")

	for _, a := range last.Alerts {
		switch a.RuleName {
		case "VELOCITY":
			assert.Equal(t, models.SeverityCritical, a.Severity)
			assert.Contains(t, a.Details, "6 transactions in last minute")
		case "RAPID_SUCCESSION":
			assert.Equal(t, models.SeverityHigh, a.Severity)
			assert.Contains(t, a.Details, "6 transactions within 60 seconds")
		}
	}
}

func TestProcess_CurrentTransactionCountsTowardVelocity(t *testing.T) {
	// The transaction under evaluation is persisted before the rules run,
	// so the third transaction in a minute already sees a count of three.
	h := newHarness(t)
	base := time.Now()

	for i := 0; i < 2; i++ {
		res, err := h.svc.Process(context.Background(), input("user_v", 1000, "groceries", base.Add(time.Duration(i)*20*time.Second)))
		require.NoError(t, err)
		assert.NotContains(t, ruleNames(res.Alerts), "VELOCITY")
	}

	res, err := h.svc.Process(context.Background(), input("user_v", 1000, "groceries", base.Add(40*time.Second)))
	require.NoError(t, err)
	assert.Contains(t, ruleNames(res.Alerts), "VELOCITY")
}

func TestProcess_AppendOnly(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 5; i++ {
		_, err := h.svc.Process(context.Background(), input("user_a", 1000, "groceries", time.Now().Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	all, err := h.svc.ListTransactions(context.Background(), "user_a", nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestGetTransaction_Unknown(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.GetTransaction(context.Background(), "TXN_NOPE")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestUserStatistics(t *testing.T) {
	h := newHarness(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	amounts := []float64{1000, 3000, 5000}
	for i, amt := range amounts {
		_, err := h.svc.Process(context.Background(), input("user_s", amt, "groceries", base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	stats, err := h.svc.UserStatistics(context.Background(), "user_s")
	require.NoError(t, err)

	assert.Equal(t, "user_s", stats.UserID)
	assert.Equal(t, 3, stats.TotalTransactions)
	assert.Equal(t, 9000.0, stats.TotalAmount)
	assert.Equal(t, 3000.0, stats.AverageAmount)
	require.NotNil(t, stats.FirstTransaction)
	require.NotNil(t, stats.LastTransaction)
	assert.True(t, stats.FirstTransaction.Equal(base))
	assert.True(t, stats.LastTransaction.Equal(base.Add(2*time.Hour)))
}

func TestUserStatistics_NoHistory(t *testing.T) {
	h := newHarness(t)

	stats, err := h.svc.UserStatistics(context.Background(), "user_ghost")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTransactions)
	assert.Nil(t, stats.FirstTransaction)
	assert.Nil(t, stats.LastTransaction)
}

func TestReport_SingleDay(t *testing.T) {
	h := newHarness(t)
	// Alerts are stamped at creation time, so the report day has to be today
	// for the alert window to line up with the transaction window.
	day := time.Now()

	_, err := h.svc.Process(context.Background(), input("user_r", 600000, "electronics", day))
	require.NoError(t, err)
	_, err = h.svc.Process(context.Background(), input("user_r", 1000, "groceries", day.Add(-48*time.Hour)))
	require.NoError(t, err)

	report, err := h.svc.Report(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, day.Format("2006-01-02"), report.Date)
	assert.Equal(t, 1, report.TotalTransactions)
	assert.Equal(t, 600000.0, report.TotalVolume)
	assert.Equal(t, 2, report.AlertsTriggered)
	assert.Equal(t, 1, report.AlertsByRule["AMOUNT_THRESHOLD"])
	assert.Equal(t, 1, report.AlertsByRule["DAILY_LIMIT"])
	assert.Equal(t, 1, report.AlertsBySeverity[models.SeverityHigh])
	assert.Equal(t, 1, report.AlertsBySeverity[models.SeverityMedium])
}
