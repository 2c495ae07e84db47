// Package store implements the persistence ports used by the compliance
// engine and the e-card service.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bizease/bizease-backend/internal/database"
	"github.com/bizease/bizease-backend/internal/models"
)

// ChecklistStore keeps checklist items in the checklist_items table.
type ChecklistStore struct {
	db *gorm.DB
}

func NewChecklistStore(db *gorm.DB) *ChecklistStore {
	return &ChecklistStore{db: db}
}

// Save replaces the business's item set in one transaction. Rows are matched
// on (business_id, catalog_id), so a set carrying fresh item ids updates the
// existing rows instead of adding to them. Existing rows keep their id.
func (s *ChecklistStore) Save(ctx context.Context, businessID uuid.UUID, items []models.ChecklistItem) error {
	if len(items) == 0 {
		return nil
	}
	catalogIDs := make([]string, len(items))
	for i := range items {
		if items[i].BusinessID != businessID {
			return fmt.Errorf("item %s belongs to business %s, not %s", items[i].ID, items[i].BusinessID, businessID)
		}
		catalogIDs[i] = items[i].CatalogID
	}

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "business_id"}, {Name: "catalog_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"position", "is_required", "status", "completed_at", "updated_at"}),
		}).Create(&items).Error
		if err != nil {
			return err
		}
		return tx.Where("business_id = ? AND catalog_id NOT IN ?", businessID, catalogIDs).
			Delete(&models.ChecklistItem{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save checklist: %w", err)
	}
	return nil
}

func (s *ChecklistStore) Load(ctx context.Context, businessID uuid.UUID) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist: %w", err)
	}
	return items, nil
}
