// internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bizease/bizease-backend/internal/database"
	"github.com/bizease/bizease-backend/internal/models"
	"github.com/bizease/bizease-backend/internal/utils"
)

var (
	ErrEmailTaken            = errors.New("email already in use")
	ErrOwnsCompliantBusiness = errors.New("user owns compliant businesses")
)

// UserService covers account self-service. Identity attributes (name,
// masked Aadhaar, address) come from DigiLocker and are not editable here.
type UserService struct {
	db  *gorm.DB
	log *logrus.Entry
}

type UpdateContactRequest struct {
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Mobile string `json:"mobile,omitempty" validate:"omitempty,phone"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:  db,
		log: logrus.WithField("component", "user_service"),
	}
}

func (s *UserService) UpdateContact(ctx context.Context, userID uuid.UUID, req *UpdateContactRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Check email uniqueness if updating
	if req.Email != "" && req.Email != user.Email {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", req.Email, userID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		user.Email = req.Email
	}
	if req.Mobile != "" {
		user.Mobile = req.Mobile
	}

	if err := s.db.WithContext(ctx).Model(&user).Select("Email", "Mobile").Updates(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return &user, nil
}

// Deactivate disables the account. Tokens already issued stay valid until
// they expire; refresh and login are refused from then on.
func (s *UserService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var compliant int64
		if err := tx.Model(&models.Business{}).
			Where("owner_user_id = ? AND status = ?", userID, models.BusinessStatusCompliant).
			Count(&compliant).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if compliant > 0 {
			return ErrOwnsCompliantBusiness
		}

		result := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("status", models.UserStatusDeactivated)
		if result.Error != nil {
			return fmt.Errorf("failed to deactivate account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithField("user_id", userID.String()).Info("Account deactivated")
	return nil
}
