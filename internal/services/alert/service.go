// Package alert turns rule findings into persisted, reviewable alert
// records and manages their resolution lifecycle.
package alert

import (
	"context"
	"log"
	"time"

	"vigil/internal/models"
	"vigil/internal/repositories"
	"vigil/internal/repositories/cache"
	"vigil/internal/rules"
)

const statsTTL = 30 * time.Second

// Service is the alert manager. The cache is optional; a nil cache means
// every read goes to the database.
type Service struct {
	repo  repositories.AlertRepository
	cache *cache.Service
}

func NewService(repo repositories.AlertRepository, cacheSvc *cache.Service) *Service {
	if repo == nil {
		panic("alert repository is required")
	}
	return &Service{repo: repo, cache: cacheSvc}
}

// Statistics is the aggregate view over all alerts.
type Statistics struct {
	TotalAlerts int            `json:"total_alerts"`
	ByStatus    map[string]int `json:"by_status"`
	BySeverity  map[string]int `json:"by_severity"`
	ByRule      map[string]int `json:"by_rule"`
}

// Create persists a new OPEN alert for the given finding and returns the
// persisted form.
func (s *Service) Create(ctx context.Context, txn *models.Transaction, finding rules.Finding) (*models.Alert, error) {
	a := &models.Alert{
		AlertID:       models.NewAlertID(),
		TransactionID: txn.TransactionID,
		RuleName:      finding.RuleName,
		Severity:      finding.Severity,
		Details:       finding.Details,
		Timestamp:     time.Now(),
		Status:        models.AlertStatusOpen,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	log.Printf("alert created: %s rule=%s severity=%s transaction=%s",
		a.AlertID, a.RuleName, a.Severity, a.TransactionID)
	return a, nil
}

// List returns alerts filtered by status and/or severity, newest first.
func (s *Service) List(ctx context.Context, status, severity string) ([]models.Alert, error) {
	return s.repo.List(ctx, status, severity)
}

// Get returns a single alert or ErrAlertNotFound.
func (s *Service) Get(ctx context.Context, alertID string) (*models.Alert, error) {
	if s.cache != nil {
		var cached models.Alert
		if found, err := s.cache.Get(ctx, cache.AlertKey(alertID), &cached); err == nil && found {
			return &cached, nil
		}
	}

	a, err := s.repo.FindByID(ctx, alertID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.AlertKey(alertID), a); err != nil {
			log.Printf("failed to cache alert %s: %v", alertID, err)
		}
	}
	return a, nil
}

// Resolve moves an alert to a terminal status and returns the refreshed
// record, or ErrAlertNotFound for an unknown id.
//
// Resolving an already-resolved alert silently overwrites the previous
// resolution fields. Reviewers wanting an immutable audit trail should rely
// on the request log, not this table.
func (s *Service) Resolve(ctx context.Context, alertID, resolution, reviewedBy, notes string) (*models.Alert, error) {
	if !models.IsValidResolution(resolution) {
		return nil, ErrInvalidResolution
	}

	updated, err := s.repo.UpdateStatus(ctx, alertID, resolution, reviewedBy, notes)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlertNotFound
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.AlertKey(alertID)); err != nil {
			log.Printf("failed to invalidate alert %s: %v", alertID, err)
		}
	}
	s.invalidateStats(ctx)

	log.Printf("alert resolved: %s resolution=%s by=%s", alertID, resolution, reviewedBy)
	return s.Get(ctx, alertID)
}

// Statistics aggregates counts over all alerts: total plus breakdowns by
// status, severity and rule. Full scan, cached briefly.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	if s.cache != nil {
		var cached Statistics
		if found, err := s.cache.Get(ctx, cache.AlertStatsKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	alerts, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalAlerts: len(alerts),
		ByStatus:    make(map[string]int),
		BySeverity:  make(map[string]int),
		ByRule:      make(map[string]int),
	}
	for _, a := range alerts {
		stats.ByStatus[a.Status]++
		stats.BySeverity[a.Severity]++
		stats.ByRule[a.RuleName]++
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cache.AlertStatsKey, stats, statsTTL); err != nil {
			log.Printf("failed to cache alert statistics: %v", err)
		}
	}
	return stats, nil
}

// AlertsInWindow returns alerts created within [start, end], used by the
// daily report.
func (s *Service) AlertsInWindow(ctx context.Context, start, end time.Time) ([]models.Alert, error) {
	return s.repo.ListInWindow(ctx, start, end)
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.AlertStatsKey); err != nil {
		log.Printf("failed to invalidate alert statistics: %v", err)
	}
}
