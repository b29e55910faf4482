package alert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vigil/internal/models"
	"vigil/internal/repositories"
	"vigil/internal/rules"
)

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, a *models.Alert) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAlertRepository) FindByID(ctx context.Context, alertID string) (*models.Alert, error) {
	args := m.Called(ctx, alertID)
	if a := args.Get(0); a != nil {
		return a.(*models.Alert), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAlertRepository) List(ctx context.Context, status, severity string) ([]models.Alert, error) {
	args := m.Called(ctx, status, severity)
	if a := args.Get(0); a != nil {
		return a.([]models.Alert), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAlertRepository) ListInWindow(ctx context.Context, start, end time.Time) ([]models.Alert, error) {
	args := m.Called(ctx, start, end)
	if a := args.Get(0); a != nil {
		return a.([]models.Alert), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAlertRepository) All(ctx context.Context) ([]models.Alert, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]models.Alert), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAlertRepository) UpdateStatus(ctx context.Context, alertID, status, resolvedBy, notes string) (bool, error) {
	args := m.Called(ctx, alertID, status, resolvedBy, notes)
	return args.Bool(0), args.Error(1)
}

var _ repositories.AlertRepository = (*MockAlertRepository)(nil)

func testTxn() *models.Transaction {
	return &models.Transaction{
		TransactionID:    "TXN_TEST",
		UserID:           "USER_TEST",
		Amount:           600000,
		MerchantID:       "MERCHANT_ABC",
		MerchantCategory: "electronics",
		PaymentMethod:    models.PaymentMethodCreditCard,
		Timestamp:        time.Now(),
	}
}

func TestService_Create(t *testing.T) {
	repo := new(MockAlertRepository)
	svc := NewService(repo, nil)

	var created *models.Alert
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Alert")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Alert)
		}).
		Return(nil)

	finding := rules.Finding{
		RuleName: "AMOUNT_THRESHOLD",
		Severity: models.SeverityHigh,
		Details:  "Amount ₹600,000 exceeds high threshold of ₹500,000",
	}

	a, err := svc.Create(context.Background(), testTxn(), finding)
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.True(t, strings.HasPrefix(a.AlertID, "ALERT_"))
	assert.Equal(t, "TXN_TEST", a.TransactionID)
	assert.Equal(t, "AMOUNT_THRESHOLD", a.RuleName)
	assert.Equal(t, models.SeverityHigh, a.Severity)
	assert.Equal(t, models.AlertStatusOpen, a.Status)
	assert.Equal(t, finding.Details, a.Details)
	assert.Same(t, created, a)

	repo.AssertExpectations(t)
}

func TestService_CreatePropagatesStorageError(t *testing.T) {
	repo := new(MockAlertRepository)
	svc := NewService(repo, nil)

	storeErr := errors.New("disk full")
	repo.On("Create", mock.Anything, mock.Anything).Return(storeErr)

	_, err := svc.Create(context.Background(), testTxn(), rules.Finding{RuleName: "VELOCITY"})
	assert.ErrorIs(t, err, storeErr)
}

func TestService_GetUnknownID(t *testing.T) {
	repo := new(MockAlertRepository)
	svc := NewService(repo, nil)

	repo.On("FindByID", mock.Anything, "ALERT_MISSING").Return(nil, repositories.ErrNotFound)

	_, err := svc.Get(context.Background(), "ALERT_MISSING")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestService_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		resolution string
		updated    bool
		wantErr    error
	}{
		{name: "approved", resolution: models.AlertStatusApproved, updated: true},
		{name: "rejected", resolution: models.AlertStatusRejected, updated: true},
		{name: "false positive", resolution: models.AlertStatusFalsePositive, updated: true},
		{name: "unknown id", resolution: models.AlertStatusApproved, updated: false, wantErr: ErrAlertNotFound},
		{name: "invalid resolution", resolution: "ESCALATED", wantErr: ErrInvalidResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAlertRepository)
			svc := NewService(repo, nil)

			if models.IsValidResolution(tt.resolution) {
				repo.On("UpdateStatus", mock.Anything, "ALERT_1", tt.resolution, "reviewer", "looks fine").
					Return(tt.updated, nil)
				if tt.updated {
					resolvedAt := time.Now()
					repo.On("FindByID", mock.Anything, "ALERT_1").Return(&models.Alert{
						AlertID:    "ALERT_1",
						Status:     tt.resolution,
						ResolvedAt: &resolvedAt,
						ResolvedBy: "reviewer",
					}, nil)
				}
			}

			a, err := svc.Resolve(context.Background(), "ALERT_1", tt.resolution, "reviewer", "looks fine")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.resolution, a.Status)
			assert.Equal(t, "reviewer", a.ResolvedBy)
			assert.NotNil(t, a.ResolvedAt)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ResolveTwiceOverwrites(t *testing.T) {
	// Re-resolving a terminal alert is not rejected: the second resolution
	// replaces the first. Documented behavior, intentionally not "fixed".
	repo := new(MockAlertRepository)
	svc := NewService(repo, nil)

	resolvedAt := time.Now()
	repo.On("UpdateStatus", mock.Anything, "ALERT_1", models.AlertStatusApproved, "first", "").
		Return(true, nil).Once()
	repo.On("FindByID", mock.Anything, "ALERT_1").Return(&models.Alert{
		AlertID: "ALERT_1", Status: models.AlertStatusApproved, ResolvedAt: &resolvedAt, ResolvedBy: "first",
	}, nil).Once()

	_, err := svc.Resolve(context.Background(), "ALERT_1", models.AlertStatusApproved, "first", "")
	require.NoError(t, err)

	repo.On("UpdateStatus", mock.Anything, "ALERT_1", models.AlertStatusRejected, "second", "").
		Return(true, nil).Once()
	repo.On("FindByID", mock.Anything, "ALERT_1").Return(&models.Alert{
		AlertID: "ALERT_1", Status: models.AlertStatusRejected, ResolvedAt: &resolvedAt, ResolvedBy: "second",
	}, nil).Once()

	a, err := svc.Resolve(context.Background(), "ALERT_1", models.AlertStatusRejected, "second", "")
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusRejected, a.Status)
	assert.Equal(t, "second", a.ResolvedBy)
}

func TestService_Statistics(t *testing.T) {
	repo := new(MockAlertRepository)
	svc := NewService(repo, nil)

	repo.On("All", mock.Anything).Return([]models.Alert{
		{AlertID: "A1", Status: models.AlertStatusOpen, Severity: models.SeverityHigh, RuleName: "AMOUNT_THRESHOLD"},
		{AlertID: "A2", Status: models.AlertStatusOpen, Severity: models.SeverityCritical, RuleName: "VELOCITY"},
		{AlertID: "A3", Status: models.AlertStatusApproved, Severity: models.SeverityHigh, RuleName: "AMOUNT_THRESHOLD"},
	}, nil)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalAlerts)
	assert.Equal(t, 2, stats.ByStatus[models.AlertStatusOpen])
	assert.Equal(t, 1, stats.ByStatus[models.AlertStatusApproved])
	assert.Equal(t, 2, stats.BySeverity[models.SeverityHigh])
	assert.Equal(t, 1, stats.BySeverity[models.SeverityCritical])
	assert.Equal(t, 2, stats.ByRule["AMOUNT_THRESHOLD"])
	assert.Equal(t, 1, stats.ByRule["VELOCITY"])
}
