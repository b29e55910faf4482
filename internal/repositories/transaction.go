package repositories

import (
	"context"
	"time"

	"vigil/internal/models"
)

// TransactionRepository persists transactions and answers the windowed
// queries the detection rules depend on.
//
// A transaction written through Create is visible to FindInWindow queries
// issued afterwards in the same call chain. The rule math relies on this:
// windows are counted including the transaction under evaluation.
type TransactionRepository interface {
	// Create appends a transaction. Transactions are immutable once written.
	Create(ctx context.Context, t *models.Transaction) error

	// FindByID returns the transaction or ErrNotFound.
	FindByID(ctx context.Context, transactionID string) (*models.Transaction, error)

	// FindInWindow returns the user's transactions with timestamps in
	// [start, end], newest first. An empty window yields an empty slice.
	FindInWindow(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error)

	// List returns transactions matching every supplied filter (AND),
	// newest first. Zero-valued filters are skipped.
	List(ctx context.Context, userID string, start, end *time.Time) ([]models.Transaction, error)

	// ListByUser returns all of a user's transactions, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Transaction, error)
}
