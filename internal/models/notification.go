// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	BaseModel
	BusinessID *uuid.UUID       `json:"business_id" gorm:"type:uuid;index"`
	UserID     *uuid.UUID       `json:"user_id" gorm:"type:uuid;index"`
	Type       NotificationType `json:"type" gorm:"type:varchar(50);not null;index"`
	Title      string           `json:"title" gorm:"size:255;not null"`
	Message    string           `json:"message" gorm:"type:text;not null"`
	Status     string           `json:"status" gorm:"type:varchar(20);default:'unread';index"`
	ReadAt     *time.Time       `json:"read_at"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	RequestID    string     `json:"request_id" gorm:"size:64;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	StatusCode   int        `json:"status_code"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`
}
