// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bizease/bizease-backend/internal/config"
	"github.com/bizease/bizease-backend/internal/models"
	"github.com/bizease/bizease-backend/internal/utils"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrAccountInactive  = errors.New("account is not active")
	ErrInvalidRefresh   = errors.New("invalid refresh token")
	ErrIdentityProvider = errors.New("identity provider unavailable")
)

// DigiLockerProfile is the verified identity returned by the federated login.
type DigiLockerProfile struct {
	DigiLockerID  string `json:"digilocker_id"`
	Name          string `json:"name"`
	MaskedAadhaar string `json:"masked_aadhaar"`
	Mobile        string `json:"mobile"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	IsVerified    bool   `json:"is_verified"`
}

type DigiLockerProvider interface {
	FetchProfile(ctx context.Context, authCode string) (*DigiLockerProfile, error)
}

// MockDigiLocker always returns the same verified citizen.
type MockDigiLocker struct{}

func (MockDigiLocker) FetchProfile(ctx context.Context, authCode string) (*DigiLockerProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &DigiLockerProfile{
		DigiLockerID:  "DL-MOCK-RAJESH-1234",
		Name:          "Rajesh Kumar",
		MaskedAadhaar: "****-****-1234",
		Mobile:        "+91 9876543210",
		Email:         "rajesh.kumar@email.com",
		Address:       "New Delhi, Delhi",
		IsVerified:    true,
	}, nil
}

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	provider DigiLockerProvider
	log      *logrus.Entry
}

type DigiLockerLoginRequest struct {
	AuthCode string `json:"auth_code,omitempty" validate:"max=512"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config, provider DigiLockerProvider) *AuthService {
	if provider == nil {
		provider = MockDigiLocker{}
	}
	return &AuthService{
		db:       db,
		cfg:      cfg,
		provider: provider,
		log:      logrus.WithField("component", "auth"),
	}
}

// LoginWithDigiLocker exchanges a DigiLocker authorization for local tokens,
// creating the user on first login.
func (s *AuthService) LoginWithDigiLocker(ctx context.Context, req *DigiLockerLoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	profile, err := s.provider.FetchProfile(ctx, req.AuthCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityProvider, err)
	}

	user, err := s.upsertUser(ctx, profile)
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrAccountInactive
	}

	s.log.WithField("user_id", user.ID.String()).Info("DigiLocker login")
	return s.issueTokens(user)
}

func (s *AuthService) upsertUser(ctx context.Context, profile *DigiLockerProfile) (*models.User, error) {
	now := time.Now()
	var user models.User
	err := s.db.WithContext(ctx).Where("digi_locker_id = ?", profile.DigiLockerID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Name:          profile.Name,
			Email:         profile.Email,
			Mobile:        profile.Mobile,
			MaskedAadhaar: profile.MaskedAadhaar,
			Address:       profile.Address,
			DigiLockerID:  profile.DigiLockerID,
			IsVerified:    profile.IsVerified,
			Status:        models.UserStatusActive,
			LastLoginAt:   &now,
		}
		user.ID = uuid.New()
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return &user, nil
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Email and mobile are user-maintained after the first login.
	user.Name = profile.Name
	user.MaskedAadhaar = profile.MaskedAadhaar
	user.Address = profile.Address
	user.IsVerified = profile.IsVerified
	user.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefresh, err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidRefresh)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrAccountInactive
	}

	return s.issueTokens(user)
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Name, user.Email, user.IsVerified, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}
