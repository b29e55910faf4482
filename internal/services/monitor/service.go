// Package monitor is the end-to-end screening pipeline: validate upstream,
// persist, evaluate rules, raise alerts, respond.
package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"vigil/internal/models"
	"vigil/internal/repositories"
	"vigil/internal/repositories/cache"
	"vigil/internal/services/alert"
	"vigil/internal/services/engine"
)

// Service orchestrates transaction processing. Each Process call is a
// single synchronous unit of work; there is no cross-step database
// transaction, so a crash after the insert leaves the transaction persisted
// without its alerts. That at-least-once risk is accepted.
type Service struct {
	transactions repositories.TransactionRepository
	engine       *engine.Engine
	alerts       *alert.Service
	cache        *cache.Service
	locks        *userLocks
}

func NewService(
	transactions repositories.TransactionRepository,
	eng *engine.Engine,
	alerts *alert.Service,
	cacheSvc *cache.Service,
	serializePerUser bool,
) *Service {
	if transactions == nil {
		panic("transaction repository is required")
	}
	if eng == nil {
		panic("rule engine is required")
	}
	if alerts == nil {
		panic("alert service is required")
	}

	s := &Service{
		transactions: transactions,
		engine:       eng,
		alerts:       alerts,
		cache:        cacheSvc,
	}
	if serializePerUser {
		s.locks = newUserLocks()
	}
	return s
}

// Process screens one transaction. The transaction is persisted before the
// rules run: every rule's window query must see it, or the threshold math
// breaks. Steps are strictly sequential and not retried.
func (s *Service) Process(ctx context.Context, in ProcessInput) (*Result, error) {
	if s.locks != nil {
		unlock := s.locks.lock(in.UserID)
		defer unlock()
	}

	txn := buildTransaction(in)

	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("persist transaction: %w", err)
	}
	s.invalidateUserStats(ctx, txn.UserID)

	findings, err := s.engine.Evaluate(ctx, txn, s.transactions)
	if err != nil {
		return nil, fmt.Errorf("evaluate rules: %w", err)
	}

	alerts := make([]models.Alert, 0, len(findings))
	for _, finding := range findings {
		a, err := s.alerts.Create(ctx, txn, finding)
		if err != nil {
			return nil, fmt.Errorf("create alert: %w", err)
		}
		alerts = append(alerts, *a)
	}

	status := StatusApproved
	if len(alerts) > 0 {
		status = StatusFlagged
		log.Printf("transaction flagged: %s user=%s alerts=%d", txn.TransactionID, txn.UserID, len(alerts))
	}

	return &Result{
		TransactionID: txn.TransactionID,
		Status:        status,
		Alerts:        alerts,
		AlertCount:    len(alerts),
	}, nil
}

func buildTransaction(in ProcessInput) *models.Transaction {
	txn := &models.Transaction{
		TransactionID:    in.TransactionID,
		UserID:           in.UserID,
		Amount:           in.Amount,
		MerchantID:       in.MerchantID,
		MerchantCategory: in.MerchantCategory,
		PaymentMethod:    in.PaymentMethod,
		Location:         in.Location,
		IsInternational:  in.IsInternational,
		MerchantCountry:  in.MerchantCountry,
	}
	if txn.TransactionID == "" {
		txn.TransactionID = models.NewTransactionID()
	}
	if in.Timestamp != nil {
		txn.Timestamp = *in.Timestamp
	} else {
		txn.Timestamp = time.Now()
	}
	if txn.MerchantCountry == "" {
		txn.MerchantCountry = "IN"
	}
	return txn
}

// GetTransaction returns a transaction by id or ErrTransactionNotFound.
func (s *Service) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	if s.cache != nil {
		var cached models.Transaction
		if found, err := s.cache.Get(ctx, cache.TransactionKey(transactionID), &cached); err == nil && found {
			return &cached, nil
		}
	}

	txn, err := s.transactions.FindByID(ctx, transactionID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	// Transactions are immutable, so a cached copy can never go stale.
	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.TransactionKey(transactionID), txn); err != nil {
			log.Printf("failed to cache transaction %s: %v", transactionID, err)
		}
	}
	return txn, nil
}

// ListTransactions returns transactions matching the optional user and date
// filters, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID string, start, end *time.Time) ([]models.Transaction, error) {
	return s.transactions.List(ctx, userID, start, end)
}

// UserStatistics aggregates a user's history. The repository returns rows
// newest first, so the first transaction is the last element.
func (s *Service) UserStatistics(ctx context.Context, userID string) (*UserStatistics, error) {
	if s.cache != nil {
		var cached UserStatistics
		if found, err := s.cache.Get(ctx, cache.UserStatsKey(userID), &cached); err == nil && found {
			return &cached, nil
		}
	}

	txns, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStatistics{UserID: userID}
	if len(txns) > 0 {
		var total float64
		for _, t := range txns {
			total += t.Amount
		}
		stats.TotalTransactions = len(txns)
		stats.TotalAmount = total
		stats.AverageAmount = total / float64(len(txns))
		first := txns[len(txns)-1].Timestamp
		last := txns[0].Timestamp
		stats.FirstTransaction = &first
		stats.LastTransaction = &last
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cache.UserStatsKey(userID), stats, time.Minute); err != nil {
			log.Printf("failed to cache user stats %s: %v", userID, err)
		}
	}
	return stats, nil
}

// Report aggregates transaction volume and alert counts for one calendar
// day.
func (s *Service) Report(ctx context.Context, date time.Time) (*DailyReport, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())

	txns, err := s.transactions.List(ctx, "", &start, &end)
	if err != nil {
		return nil, err
	}
	alerts, err := s.alerts.AlertsInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &DailyReport{
		Date:              start.Format("2006-01-02"),
		TotalTransactions: len(txns),
		AlertsTriggered:   len(alerts),
		AlertsBySeverity:  make(map[string]int),
		AlertsByRule:      make(map[string]int),
	}
	for _, t := range txns {
		report.TotalVolume += t.Amount
	}
	for _, a := range alerts {
		report.AlertsBySeverity[a.Severity]++
		report.AlertsByRule[a.RuleName]++
	}
	return report, nil
}

func (s *Service) invalidateUserStats(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.UserStatsKey(userID)); err != nil {
		log.Printf("failed to invalidate user stats %s: %v", userID, err)
	}
}
