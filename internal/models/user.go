// internal/models/user.go
package models

import (
	"time"
)

// User is a citizen identity confirmed through the DigiLocker login. No
// credentials are stored locally.
type User struct {
	BaseModel
	Name          string     `json:"name" gorm:"size:255;not null"`
	Email         string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Mobile        string     `json:"mobile" gorm:"size:20"`
	MaskedAadhaar string     `json:"masked_aadhaar" gorm:"size:20"`
	Address       string     `json:"address" gorm:"type:text"`
	DigiLockerID  string     `json:"-" gorm:"uniqueIndex;size:100;not null"`
	IsVerified    bool       `json:"is_verified"`
	Status        UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	LastLoginAt   *time.Time `json:"last_login_at"`

	// Relationships
	Businesses []Business `json:"businesses,omitempty" gorm:"foreignKey:OwnerUserID"`
}
