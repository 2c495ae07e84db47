package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bizease/bizease-backend/internal/compliance"
	"github.com/bizease/bizease-backend/internal/models"
	"github.com/bizease/bizease-backend/internal/utils"
)

var ErrBusinessNotFound = errors.New("business not found")

type BusinessService struct {
	db            *gorm.DB
	checklists    *ChecklistService
	notifications *NotificationService
	log           *logrus.Entry
	now           func() time.Time
}

type RegisterBusinessRequest struct {
	BusinessName string                 `json:"business_name" validate:"required,min=2,max=255"`
	OwnerName    string                 `json:"owner_name" validate:"required,max=255"`
	Email        string                 `json:"email" validate:"required,email"`
	Phone        string                 `json:"phone" validate:"required,phone"`
	Address      string                 `json:"address,omitempty" validate:"max=1000"`
	City         string                 `json:"city,omitempty" validate:"max=100"`
	State        string                 `json:"state,omitempty" validate:"max=100"`
	Pincode      string                 `json:"pincode,omitempty" validate:"omitempty,len=6,numeric"`
	Profile      models.BusinessProfile `json:"profile"`
}

type UpdateProfileRequest struct {
	Profile models.BusinessProfile `json:"profile"`
}

type RegistrationResult struct {
	Business  *models.Business `json:"business"`
	Checklist *ChecklistView   `json:"checklist"`
}

func NewBusinessService(db *gorm.DB, checklists *ChecklistService, notifications *NotificationService) *BusinessService {
	return &BusinessService{
		db:            db,
		checklists:    checklists,
		notifications: notifications,
		log:           logrus.WithField("component", "business"),
		now:           time.Now,
	}
}

// Register stores a new business and seeds its checklist. A returned
// compliance.ErrPersistence accompanies a valid result.
func (s *BusinessService) Register(ctx context.Context, ownerID *uuid.UUID, req *RegisterBusinessRequest) (*RegistrationResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	registrationID, err := utils.GenerateRegistrationID(s.now())
	if err != nil {
		return nil, err
	}

	business := &models.Business{
		RegistrationID: registrationID,
		OwnerUserID:    ownerID,
		BusinessName:   req.BusinessName,
		OwnerName:      req.OwnerName,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Pincode:        req.Pincode,
		Profile:        req.Profile.Normalize(),
		Status:         models.BusinessStatusPending,
	}
	business.ID = uuid.New()

	if err := s.db.WithContext(ctx).Create(business).Error; err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"business_id":     business.ID.String(),
		"registration_id": business.RegistrationID,
		"structure":       business.Profile.Structure,
		"industry":        business.Profile.Industry,
	}).Info("Business registered")

	checklist, err := s.checklists.Generate(ctx, business)
	if checklist == nil {
		return nil, fmt.Errorf("failed to generate checklist: %w", err)
	}

	if s.notifications != nil {
		go s.notifications.NotifyBusinessRegistered(business)
	}

	return &RegistrationResult{Business: business, Checklist: checklist}, err
}

func (s *BusinessService) GetBusiness(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := s.db.WithContext(ctx).First(&business, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &business, nil
}

func (s *BusinessService) GetByRegistrationID(ctx context.Context, registrationID string) (*models.Business, error) {
	var business models.Business
	if err := s.db.WithContext(ctx).Where("registration_id = ?", registrationID).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &business, nil
}

// BusinessListing is what GET /businesses accepts.
var BusinessListing = utils.ListSpec{
	Sorts: map[string]string{
		"registered": "created_at",
		"name":       "business_name",
		"status":     "status",
	},
	DefaultSort: "-registered",
	Statuses:    []string{string(models.BusinessStatusPending), string(models.BusinessStatusCompliant)},
	Searchable:  "business_name",
}

func (s *BusinessService) ListForOwner(ctx context.Context, ownerID uuid.UUID, q utils.ListQuery) ([]models.Business, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Business{}).Where("owner_user_id = ?", ownerID)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		query = query.Where(BusinessListing.Searchable+" ILIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count businesses: %w", err)
	}

	var businesses []models.Business
	if err := q.Scope(query).Find(&businesses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list businesses: %w", err)
	}
	return businesses, total, nil
}

// UpdateProfile stores a new questionnaire snapshot and reconciles the
// checklist with it. Entries still required keep their status.
func (s *BusinessService) UpdateProfile(ctx context.Context, id uuid.UUID, profile models.BusinessProfile) (*RegistrationResult, error) {
	if err := utils.ValidateStruct(&profile); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	business, err := s.GetBusiness(ctx, id)
	if err != nil {
		return nil, err
	}

	business.Profile = profile.Normalize()
	if err := s.db.WithContext(ctx).Model(business).Select("Profile").Updates(business).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	checklist, err := s.checklists.Generate(ctx, business)
	if checklist == nil {
		return nil, fmt.Errorf("failed to load checklist: %w", err)
	}
	return &RegistrationResult{Business: business, Checklist: checklist}, err
}

func (s *BusinessService) MarkCompliant(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	business, err := s.GetBusiness(ctx, id)
	if err != nil {
		return nil, err
	}
	if business.Status == models.BusinessStatusCompliant {
		return business, nil
	}

	now := s.now()
	err = s.db.WithContext(ctx).Model(business).Updates(map[string]interface{}{
		"status":       models.BusinessStatusCompliant,
		"compliant_at": now,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark business compliant: %w", err)
	}
	business.Status = models.BusinessStatusCompliant
	business.CompliantAt = &now
	return business, nil
}

// HandleProgress reacts to the checklist completion edge.
func (s *BusinessService) HandleProgress(e compliance.ProgressEvent) {
	if !e.BecameComplete {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		business, err := s.MarkCompliant(ctx, e.BusinessID)
		if err != nil {
			s.log.WithError(err).WithField("business_id", e.BusinessID.String()).Error("Failed to mark business compliant")
			return
		}
		if s.notifications != nil {
			s.notifications.NotifyChecklistComplete(business)
		}
	}()
}
