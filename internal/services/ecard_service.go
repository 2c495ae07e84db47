package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"

	"github.com/bizease/bizease-backend/internal/compliance"
	"github.com/bizease/bizease-backend/internal/config"
	"github.com/bizease/bizease-backend/internal/metrics"
	"github.com/bizease/bizease-backend/internal/models"
	"github.com/bizease/bizease-backend/internal/store"
	"github.com/bizease/bizease-backend/internal/utils"
)

var (
	ErrChecklistIncomplete = errors.New("checklist incomplete")
	ErrECardNotFound       = errors.New("e-card not found")
	ErrInvalidQRPayload    = errors.New("invalid qr payload")
)

// Verification outcomes.
const (
	VerificationValid      = "valid"
	VerificationExpired    = "expired"
	VerificationMismatch   = "mismatch"
	VerificationUnverified = "unverified"
)

const qrPayloadSchema = `{
  "type": "object",
  "required": ["registrationId", "businessName", "status", "validUntil"],
  "properties": {
    "registrationId": {"type": "string", "pattern": "^(BIZ[0-9]{10,16}[A-Z0-9]{4}|BZ[0-9]{8})$"},
    "businessName":   {"type": "string", "minLength": 1},
    "status":         {"type": "string", "enum": ["verified", "unverified"]},
    "validUntil":     {"type": "string", "format": "date-time"}
  }
}`

type ECardRepository interface {
	Create(ctx context.Context, card *models.BusinessECard) error
	Latest(ctx context.Context, businessID uuid.UUID) (*models.BusinessECard, error)
	ByRegistrationID(ctx context.Context, registrationID string) (*models.BusinessECard, error)
}

// QRPayload is the document embedded in the e-card QR image. External
// verifiers parse these exact keys.
type QRPayload struct {
	RegistrationID string `json:"registrationId"`
	BusinessName   string `json:"businessName"`
	Status         string `json:"status"`
	ValidUntil     string `json:"validUntil"`
}

type VerificationResult struct {
	RegistrationID string                `json:"registration_id"`
	Status         string                `json:"status"`
	Valid          bool                  `json:"valid"`
	Card           *models.BusinessECard `json:"card,omitempty"`
	Errors         []string              `json:"errors,omitempty"`
}

type ECardService struct {
	repo          ECardRepository
	checklists    *ChecklistService
	notifications *NotificationService
	metrics       *metrics.Metrics
	config        config.ECardConfig
	log           *logrus.Entry
	now           func() time.Time
}

func NewECardService(repo ECardRepository, checklists *ChecklistService, notifications *NotificationService, m *metrics.Metrics, cfg config.ECardConfig) *ECardService {
	return &ECardService{
		repo:          repo,
		checklists:    checklists,
		notifications: notifications,
		metrics:       m,
		config:        cfg,
		log:           logrus.WithField("component", "ecard"),
		now:           time.Now,
	}
}

// Issue creates the verification record for a business whose checklist is
// complete. When the record cannot be stored a locally synthesized card with
// unverified provenance is returned instead of an error.
func (s *ECardService) Issue(ctx context.Context, business *models.Business) (*models.BusinessECard, error) {
	complete, err := s.checklists.IsComplete(ctx, business)
	if err != nil && !errors.Is(err, compliance.ErrPersistence) {
		return nil, err
	}
	if !complete {
		return nil, ErrChecklistIncomplete
	}

	now := s.now().UTC()
	card := s.buildCard(business, business.RegistrationID, now, models.ProvenanceVerified)

	log := s.log.WithFields(logrus.Fields{
		"business_id":     business.ID.String(),
		"registration_id": card.RegistrationID,
	})

	if err := s.repo.Create(ctx, card); err != nil {
		log.WithError(err).Warn("E-card storage failed, issuing unverified card")
		s.metrics.PersistenceFailed("ecard")

		registrationID := business.RegistrationID
		if registrationID == "" {
			registrationID = utils.FallbackRegistrationID(now)
		}
		card = s.buildCard(business, registrationID, now, models.ProvenanceUnverified)
		card.ID = uuid.New()
		card.CreatedAt = now
		card.UpdatedAt = now
		card.Degraded = true
		s.metrics.ECardIssued(string(card.Provenance))
		return card, nil
	}

	s.metrics.ECardIssued(string(card.Provenance))
	log.Info("E-card issued")

	if s.notifications != nil {
		go s.notifications.NotifyECardIssued(business, card)
	}
	return card, nil
}

func (s *ECardService) buildCard(business *models.Business, registrationID string, now time.Time, provenance models.Provenance) *models.BusinessECard {
	validUntil := now.AddDate(0, 0, s.config.ValidityDays)

	payload := QRPayload{
		RegistrationID: registrationID,
		BusinessName:   business.BusinessName,
		Status:         string(provenance),
		ValidUntil:     validUntil.Format(time.RFC3339),
	}

	return &models.BusinessECard{
		BusinessID:     business.ID,
		RegistrationID: registrationID,
		BusinessName:   business.BusinessName,
		OwnerName:      business.OwnerName,
		IssuedAt:       now,
		ValidUntil:     validUntil,
		QRData:         payload.toJSONB(),
		QRCodeURL:      s.QRCodeURL(payload),
		VerifyURL:      strings.TrimRight(s.config.VerifyBaseURL, "/") + "/" + registrationID,
		Provenance:     provenance,
	}
}

func (p QRPayload) toJSONB() models.JSONB {
	return models.JSONB{
		"registrationId": p.RegistrationID,
		"businessName":   p.BusinessName,
		"status":         p.Status,
		"validUntil":     p.ValidUntil,
	}
}

// QRCodeURL points the external image service at the serialized payload.
func (s *ECardService) QRCodeURL(payload QRPayload) string {
	raw, _ := json.Marshal(payload)
	data := strings.ReplaceAll(url.QueryEscape(string(raw)), "+", "%20")
	return fmt.Sprintf("%s?size=200x200&data=%s", s.config.QRServiceURL, data)
}

func (s *ECardService) Latest(ctx context.Context, businessID uuid.UUID) (*models.BusinessECard, error) {
	card, err := s.repo.Latest(ctx, businessID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrECardNotFound
	}
	return card, err
}

// VerifyByRegistrationID reports whether the newest card issued under
// registrationID is still within its validity window.
func (s *ECardService) VerifyByRegistrationID(ctx context.Context, registrationID string) (*VerificationResult, error) {
	card, err := s.repo.ByRegistrationID(ctx, registrationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrECardNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.verdict(card), nil
}

func (s *ECardService) verdict(card *models.BusinessECard) *VerificationResult {
	result := &VerificationResult{RegistrationID: card.RegistrationID, Card: card}
	switch {
	case !card.IsValidAt(s.now()):
		result.Status = VerificationExpired
	case card.Provenance != models.ProvenanceVerified:
		result.Status = VerificationUnverified
	default:
		result.Status = VerificationValid
		result.Valid = true
	}
	return result
}

// VerifyQRPayload checks a scanned QR document against the payload schema
// and the stored card it claims to describe.
func (s *ECardService) VerifyQRPayload(ctx context.Context, raw []byte) (*VerificationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(qrPayloadSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQRPayload, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return &VerificationResult{Errors: errs}, ErrInvalidQRPayload
	}

	var payload QRPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQRPayload, err)
	}

	verification, err := s.VerifyByRegistrationID(ctx, payload.RegistrationID)
	if err != nil {
		return nil, err
	}

	card := verification.Card
	stored, _ := card.QRData["validUntil"].(string)
	if payload.BusinessName != card.BusinessName ||
		payload.Status != string(card.Provenance) ||
		(stored != "" && payload.ValidUntil != stored) {
		return &VerificationResult{
			RegistrationID: payload.RegistrationID,
			Status:         VerificationMismatch,
			Errors:         []string{"payload does not match the issued e-card"},
		}, nil
	}
	return verification, nil
}
