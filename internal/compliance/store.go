package compliance

import (
	"context"

	"github.com/google/uuid"

	"github.com/bizease/bizease-backend/internal/models"
)

// Store persists checklist state keyed by business id.
//
// Save replaces the stored set for the business: items are keyed by catalog
// id, and stored entries missing from items are removed. Load returns an
// empty slice and a nil error when nothing has been saved for the business.
type Store interface {
	Save(ctx context.Context, businessID uuid.UUID, items []models.ChecklistItem) error
	Load(ctx context.Context, businessID uuid.UUID) ([]models.ChecklistItem, error)
}
