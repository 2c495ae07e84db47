package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizease/bizease-backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

type ECardStore struct {
	db *gorm.DB
}

func NewECardStore(db *gorm.DB) *ECardStore {
	return &ECardStore{db: db}
}

func (s *ECardStore) Create(ctx context.Context, card *models.BusinessECard) error {
	if err := s.db.WithContext(ctx).Create(card).Error; err != nil {
		return fmt.Errorf("failed to store e-card: %w", err)
	}
	return nil
}

// Latest returns the most recently issued card for a business.
func (s *ECardStore) Latest(ctx context.Context, businessID uuid.UUID) (*models.BusinessECard, error) {
	var card models.BusinessECard
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("issued_at DESC").
		First(&card).Error
	return found(&card, err)
}

func (s *ECardStore) ByRegistrationID(ctx context.Context, registrationID string) (*models.BusinessECard, error) {
	var card models.BusinessECard
	err := s.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("issued_at DESC").
		First(&card).Error
	return found(&card, err)
}

func found(card *models.BusinessECard, err error) (*models.BusinessECard, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load e-card: %w", err)
	}
	return card, nil
}
