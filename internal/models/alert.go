package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Alert severities, ordered from least to most severe.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Alert statuses. An alert starts OPEN and moves one-way to a terminal
// status when a reviewer resolves it.
const (
	AlertStatusOpen          = "OPEN"
	AlertStatusApproved      = "APPROVED"
	AlertStatusRejected      = "REJECTED"
	AlertStatusFalsePositive = "FALSE_POSITIVE"
)

// Resolutions lists the terminal statuses a reviewer may assign.
var Resolutions = []string{
	AlertStatusApproved,
	AlertStatusRejected,
	AlertStatusFalsePositive,
}

// Alert is a persisted rule finding awaiting (or past) human review.
// It references its transaction but does not own it.
type Alert struct {
	AlertID         string     `gorm:"primaryKey;size:64" json:"alert_id"`
	TransactionID   string     `gorm:"size:64;not null;index" json:"transaction_id"`
	RuleName        string     `gorm:"size:64;not null" json:"rule_name"`
	Severity        string     `gorm:"size:16;not null" json:"severity"`
	Details         string     `gorm:"not null" json:"details"`
	Timestamp       time.Time  `gorm:"not null;index" json:"timestamp"`
	Status          string     `gorm:"size:32;not null;default:'OPEN'" json:"status"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
}

// NewAlertID generates an id in the ALERT_XXXXXXXXXXXX format.
func NewAlertID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ALERT_" + strings.ToUpper(hex[:12])
}

// IsValidResolution reports whether r is a terminal reviewer resolution.
func IsValidResolution(r string) bool {
	for _, v := range Resolutions {
		if r == v {
			return true
		}
	}
	return false
}
