// internal/models/business.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Business struct {
	BaseModel
	RegistrationID string          `json:"registration_id" gorm:"uniqueIndex;size:32;not null"`
	OwnerUserID    *uuid.UUID      `json:"owner_user_id,omitempty" gorm:"type:uuid;index"`
	BusinessName   string          `json:"business_name" gorm:"size:255;not null"`
	OwnerName      string          `json:"owner_name" gorm:"size:255;not null"`
	Email          string          `json:"email" gorm:"size:255;not null;index"`
	Phone          string          `json:"phone" gorm:"size:20;not null"`
	Address        string          `json:"address" gorm:"type:text"`
	City           string          `json:"city" gorm:"size:100"`
	State          string          `json:"state" gorm:"size:100"`
	Pincode        string          `json:"pincode" gorm:"size:10"`
	Profile        BusinessProfile `json:"profile" gorm:"type:jsonb;serializer:json;not null"`
	Status         BusinessStatus  `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CompliantAt    *time.Time      `json:"compliant_at"`

	// Relationships
	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerUserID"`
}
