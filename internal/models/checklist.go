// internal/models/checklist.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ChecklistItem is a catalog entry instantiated for one business, unique per
// (business, catalog entry). Status is the only field that changes for a
// given profile; a resubmitted profile may also move or re-flag items.
type ChecklistItem struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	BusinessID       uuid.UUID       `json:"business_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_checklist_items_business_catalog"`
	CatalogID        string          `json:"catalog_id" gorm:"size:50;not null;uniqueIndex:idx_checklist_items_business_catalog"`
	Position         int             `json:"position" gorm:"not null"`
	Title            string          `json:"title" gorm:"size:255;not null"`
	Description      string          `json:"description" gorm:"type:text"`
	Category         string          `json:"category" gorm:"size:100;not null"`
	EstimatedTime    string          `json:"estimated_time" gorm:"size:50"`
	CostEstimate     string          `json:"cost_estimate" gorm:"size:100"`
	GovernmentPortal string          `json:"government_portal" gorm:"size:255"`
	DocumentsNeeded  pq.StringArray  `json:"documents_needed" gorm:"type:text[]"`
	WhyNeeded        string          `json:"why_needed" gorm:"type:text"`
	Priority         Priority        `json:"priority" gorm:"type:varchar(10);not null"`
	IsRequired       bool            `json:"is_required"`
	Status           ChecklistStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CompletedAt      *time.Time      `json:"completed_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
