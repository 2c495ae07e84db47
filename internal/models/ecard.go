// internal/models/ecard.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// BusinessECard is the verification record issued once a checklist is fully
// completed. Rows are never updated after insert.
type BusinessECard struct {
	BaseModel
	BusinessID     uuid.UUID  `json:"business_id" gorm:"type:uuid;not null;index"`
	RegistrationID string     `json:"registration_id" gorm:"size:32;not null;index"`
	BusinessName   string     `json:"business_name" gorm:"size:255;not null"`
	OwnerName      string     `json:"owner_name" gorm:"size:255;not null"`
	IssuedAt       time.Time  `json:"issued_at" gorm:"not null"`
	ValidUntil     time.Time  `json:"valid_until" gorm:"not null;index"`
	QRData         JSONB      `json:"qr_data" gorm:"type:jsonb;not null"`
	QRCodeURL      string     `json:"qr_code_url" gorm:"type:text"`
	VerifyURL      string     `json:"verify_url" gorm:"size:255"`
	Provenance     Provenance `json:"provenance" gorm:"type:varchar(20);default:'verified'"`

	// Degraded is set on records synthesized locally when the registry
	// could not store the card.
	Degraded bool `json:"degraded" gorm:"-"`
}

func (e *BusinessECard) IsValidAt(t time.Time) bool {
	return !t.After(e.ValidUntil)
}
