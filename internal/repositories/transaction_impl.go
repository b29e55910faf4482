package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vigil/internal/models"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository returns a GORM-backed TransactionRepository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) FindByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return &t, nil
}

func (r *transactionRepository) FindInWindow(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp <= ?", userID, start, end).
		Order("timestamp DESC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("window query: %w", err)
	}
	return txns, nil
}

func (r *transactionRepository) List(ctx context.Context, userID string, start, end *time.Time) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if start != nil {
		q = q.Where("timestamp >= ?", *start)
	}
	if end != nil {
		q = q.Where("timestamp <= ?", *end)
	}

	var txns []models.Transaction
	if err := q.Order("timestamp DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("list user transactions: %w", err)
	}
	return txns, nil
}
