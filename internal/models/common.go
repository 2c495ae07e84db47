// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type ChecklistStatus string

const (
	ChecklistStatusPending    ChecklistStatus = "pending"
	ChecklistStatusInProgress ChecklistStatus = "in-progress"
	ChecklistStatusCompleted  ChecklistStatus = "completed"
)

func (s ChecklistStatus) Valid() bool {
	switch s {
	case ChecklistStatusPending, ChecklistStatusInProgress, ChecklistStatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type BusinessStatus string

const (
	BusinessStatusPending   BusinessStatus = "pending"
	BusinessStatusCompliant BusinessStatus = "compliant"
)

// Provenance records whether an e-card was confirmed by the registry or
// synthesized locally after a storage failure.
type Provenance string

const (
	ProvenanceVerified   Provenance = "verified"
	ProvenanceUnverified Provenance = "unverified"
)

type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusSuspended   UserStatus = "suspended"
	UserStatusDeactivated UserStatus = "deactivated"
)

type NotificationType string

const (
	NotificationBusinessRegistered NotificationType = "business_registered"
	NotificationChecklistComplete  NotificationType = "checklist_complete"
	NotificationECardIssued        NotificationType = "ecard_issued"
)
