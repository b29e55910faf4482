package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vigil/internal/models"
)

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository returns a GORM-backed AlertRepository.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, a *models.Alert) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *alertRepository) FindByID(ctx context.Context, alertID string) (*models.Alert, error) {
	var a models.Alert
	err := r.db.WithContext(ctx).
		Where("alert_id = ?", alertID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find alert: %w", err)
	}
	return &a, nil
}

func (r *alertRepository) List(ctx context.Context, status, severity string) ([]models.Alert, error) {
	q := r.db.WithContext(ctx).Model(&models.Alert{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if severity != "" {
		q = q.Where("severity = ?", severity)
	}

	var alerts []models.Alert
	if err := q.Order("timestamp DESC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) ListInWindow(ctx context.Context, start, end time.Time) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", start, end).
		Order("timestamp DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("alert window query: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) All(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	if err := r.db.WithContext(ctx).Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("scan alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) UpdateStatus(ctx context.Context, alertID, status, resolvedBy, notes string) (bool, error) {
	updates := map[string]interface{}{
		"status":           status,
		"resolved_by":      resolvedBy,
		"resolution_notes": notes,
	}
	if status != models.AlertStatusOpen {
		updates["resolved_at"] = time.Now()
	} else {
		updates["resolved_at"] = nil
	}

	res := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("alert_id = ?", alertID).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("update alert status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
