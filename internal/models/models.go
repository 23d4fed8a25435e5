package models

import (
	"time"
)

// Environment represents the deploy environment a flag targets
type Environment string

const (
	EnvProduction  Environment = "Production"
	EnvStaging     Environment = "Staging"
	EnvDevelopment Environment = "Development"
)

// AuditAction represents the kind of change recorded in an audit log entry
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// KeyStatus represents the lifecycle state of an API key
type KeyStatus string

const (
	KeyActive  KeyStatus = "active"
	KeyRevoked KeyStatus = "revoked"
)

// WaitListStatus represents the operator-assigned state of a waitlist signup
type WaitListStatus string

const (
	WaitListApproved WaitListStatus = "APPROVED"
	WaitListPending  WaitListStatus = "PENDING"
	WaitListRevoked  WaitListStatus = "REVOKED"
)

// FeatureFlag represents a feature flag as served by the backend.
// The client holds a read-mostly copy per fetch; toggles are applied
// optimistically and reconciled by re-fetch.
type FeatureFlag struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description,omitempty"`
	Environment       Environment `json:"environment"`
	Enabled           bool        `json:"enabled"`
	RolloutPercentage int         `json:"rolloutPercentage"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// AuditLog is an append-only record of a flag change. Immutable once created.
type AuditLog struct {
	ID          string      `json:"id"`
	Action      AuditAction `json:"action"`
	FlagID      string      `json:"flagId"`
	FlagName    string      `json:"flagName"`
	PerformedBy string      `json:"performedBy"`
	Details     string      `json:"details,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// APIKey represents an account API key. FullKey is populated exactly once,
// in the response to the generate call, and must never be persisted locally.
type APIKey struct {
	ID         string     `json:"id"`
	PartialKey string     `json:"partialKey"`
	FullKey    string     `json:"fullKey,omitempty"`
	Status     KeyStatus  `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
}

// WaitListSignup represents a beta waitlist entry (operator view).
type WaitListSignup struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Status     WaitListStatus `json:"status"`
	Company    string         `json:"company,omitempty"`
	Role       string         `json:"role,omitempty"`
	Challenges string         `json:"challenges,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Session is the locally stored authentication state.
type Session struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

// IsValidEnvironment checks if an environment is valid
func IsValidEnvironment(e Environment) bool {
	switch e {
	case EnvProduction, EnvStaging, EnvDevelopment:
		return true
	}
	return false
}

// NormalizeEnvironment converts alternate environment spellings to canonical form
// Accepts: "production"/"prod", "staging"/"stage", "development"/"dev"
func NormalizeEnvironment(s string) Environment {
	switch s {
	case "production", "prod":
		return EnvProduction
	case "staging", "stage":
		return EnvStaging
	case "development", "dev":
		return EnvDevelopment
	default:
		return Environment(s)
	}
}

// IsValidAuditAction checks if an audit action is valid
func IsValidAuditAction(a AuditAction) bool {
	switch a {
	case AuditCreate, AuditUpdate, AuditDelete:
		return true
	}
	return false
}

// IsValidWaitListStatus checks if a waitlist status is valid
func IsValidWaitListStatus(s WaitListStatus) bool {
	switch s {
	case WaitListApproved, WaitListPending, WaitListRevoked:
		return true
	}
	return false
}

// ClampRollout clamps a rollout percentage into [0, 100]
func ClampRollout(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Active reports whether the key is usable
func (k *APIKey) Active() bool {
	return k.Status == KeyActive
}
