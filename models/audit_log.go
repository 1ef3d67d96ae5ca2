package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of security event being audited
type AuditAction string

const (
	AuditActionSignInSucceeded AuditAction = "sign_in_succeeded"
	AuditActionSignInFailed    AuditAction = "sign_in_failed"
	AuditActionTokenRefreshed  AuditAction = "token_refreshed"
	AuditActionRefreshRejected AuditAction = "refresh_rejected"
	AuditActionSignedOut       AuditAction = "signed_out"
)

// AuditLog represents an entry in the authentication audit trail
type AuditLog struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    *uuid.UUID      `json:"user_id,omitempty" db:"user_id"`
	Email     string          `json:"email,omitempty" db:"email"`
	Action    AuditAction     `json:"action" db:"action"`
	Reason    string          `json:"reason,omitempty" db:"reason"`
	Details   json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress string          `json:"ip_address" db:"ip_address"`
	UserAgent string          `json:"user_agent" db:"user_agent"`
	RequestID string          `json:"request_id" db:"request_id"`
	Timestamp time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "auth_audit_logs"
}

// NewAuditLog creates a new AuditLog instance
func NewAuditLog(action AuditAction) *AuditLog {
	return &AuditLog{
		ID:        uuid.New(),
		Action:    action,
		Timestamp: time.Now(),
	}
}

// WithUser sets the user ID
func (a *AuditLog) WithUser(userID uuid.UUID) *AuditLog {
	a.UserID = &userID
	return a
}

// WithEmail records the email presented by the caller
func (a *AuditLog) WithEmail(email string) *AuditLog {
	a.Email = email
	return a
}

// WithReason records why an attempt was rejected
func (a *AuditLog) WithReason(reason string) *AuditLog {
	a.Reason = reason
	return a
}

// WithDetails sets the details
func (a *AuditLog) WithDetails(details interface{}) *AuditLog {
	if data, err := json.Marshal(details); err == nil {
		a.Details = data
	}
	return a
}

// WithRequest sets request metadata
func (a *AuditLog) WithRequest(requestID, ipAddress, userAgent string) *AuditLog {
	a.RequestID = requestID
	a.IPAddress = ipAddress
	a.UserAgent = userAgent
	return a
}
