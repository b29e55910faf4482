package repositories

import (
	"context"
	"time"

	"vigil/internal/models"
)

// AlertRepository persists alerts and their review lifecycle.
type AlertRepository interface {
	// Create appends an alert.
	Create(ctx context.Context, a *models.Alert) error

	// FindByID returns the alert or ErrNotFound.
	FindByID(ctx context.Context, alertID string) (*models.Alert, error)

	// List returns alerts matching the supplied filters (AND-composed,
	// empty string skips a filter), newest first.
	List(ctx context.Context, status, severity string) ([]models.Alert, error)

	// ListInWindow returns alerts created in [start, end], newest first.
	ListInWindow(ctx context.Context, start, end time.Time) ([]models.Alert, error)

	// All returns every alert. Alert volume is small relative to
	// transaction volume, so a full scan is acceptable for statistics.
	All(ctx context.Context) ([]models.Alert, error)

	// UpdateStatus moves an alert to the given status, stamping resolved_at
	// for terminal statuses. It reports false when the id matches no alert.
	// An already-resolved alert is overwritten without complaint.
	UpdateStatus(ctx context.Context, alertID, status, resolvedBy, notes string) (bool, error)
}
