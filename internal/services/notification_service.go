// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bizease/bizease-backend/internal/config"
	"github.com/bizease/bizease-backend/internal/models"
	"github.com/bizease/bizease-backend/internal/utils"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
	log    *logrus.Entry
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
		log:    logrus.WithField("component", "notification"),
	}
}

// Business notifications
func (s *NotificationService) NotifyBusinessRegistered(business *models.Business) {
	s.notify(business, models.NotificationBusinessRegistered,
		"Business registered",
		fmt.Sprintf("%s was registered with ID %s. Your compliance checklist is ready.", business.BusinessName, business.RegistrationID),
		map[string]interface{}{
			"OwnerName":      business.OwnerName,
			"BusinessName":   business.BusinessName,
			"RegistrationID": business.RegistrationID,
			"ChecklistURL":   fmt.Sprintf("%s/businesses/%s/checklist", s.config.Frontend.BaseURL, business.ID),
		})
}

func (s *NotificationService) NotifyChecklistComplete(business *models.Business) {
	s.notify(business, models.NotificationChecklistComplete,
		"Checklist complete",
		fmt.Sprintf("Every compliance step for %s is complete. You can now generate your Business E-Card.", business.BusinessName),
		map[string]interface{}{
			"OwnerName":    business.OwnerName,
			"BusinessName": business.BusinessName,
			"ECardURL":     fmt.Sprintf("%s/businesses/%s/ecard", s.config.Frontend.BaseURL, business.ID),
		})
}

func (s *NotificationService) NotifyECardIssued(business *models.Business, card *models.BusinessECard) {
	s.notify(business, models.NotificationECardIssued,
		"Business E-Card issued",
		fmt.Sprintf("The E-Card for %s is valid until %s.", business.BusinessName, card.ValidUntil.Format("02 Jan 2006")),
		map[string]interface{}{
			"OwnerName":    business.OwnerName,
			"BusinessName": business.BusinessName,
			"ValidUntil":   card.ValidUntil.Format("02 Jan 2006"),
			"VerifyURL":    card.VerifyURL,
		})
}

func (s *NotificationService) notify(business *models.Business, kind models.NotificationType, title, message string, data map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	businessID := business.ID
	notification := &models.Notification{
		BusinessID: &businessID,
		UserID:     business.OwnerUserID,
		Type:       kind,
		Title:      title,
		Message:    message,
		Status:     "unread",
	}
	log := s.log.WithFields(logrus.Fields{
		"business_id": business.ID.String(),
		"type":        kind,
	})

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		log.WithError(err).Warn("Failed to store notification")
	}

	if business.Email == "" {
		return
	}
	tmpl := s.getEmailTemplate(string(kind))
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		log.WithError(err).Warn("Failed to render email template")
		return
	}
	if err := s.sendEmail(business.Email, tmpl.Subject, body); err != nil {
		log.WithError(err).Warn("Failed to send email")
	}
}

// NotificationListing is what GET /notifications accepts.
var NotificationListing = utils.ListSpec{
	Sorts:       map[string]string{"sent": "created_at", "type": "type"},
	DefaultSort: "-sent",
	Statuses:    []string{"unread", "read"},
}

// ListForUser returns one page of the caller's notifications.
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, q utils.ListQuery) ([]models.Notification, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []models.Notification
	if err := q.Scope(query).Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"status": "read", "read_at": now})
	if result.Error != nil {
		return fmt.Errorf("failed to update notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		s.log.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug("SMTP not configured, skipping email")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	from := s.config.Email.FromEmail
	if s.config.Email.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.Email.FromName, s.config.Email.FromEmail)
	}
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", from, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		string(models.NotificationBusinessRegistered): {
			Subject: "Welcome to BizEase",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.OwnerName}},</h2>
	<p>{{.BusinessName}} is now registered with BizEase. Your registration ID is <b>{{.RegistrationID}}</b>.</p>
	<p>Your personalised compliance checklist is ready:</p>
	<a href="{{.ChecklistURL}}">Open checklist</a>
	<p>Regards,<br>BizEase, Government of NCT of Delhi</p>
</body>
</html>`,
		},
		string(models.NotificationChecklistComplete): {
			Subject: "Your compliance checklist is complete",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Congratulations {{.OwnerName}}!</h2>
	<p>All compliance steps for {{.BusinessName}} are complete.</p>
	<a href="{{.ECardURL}}">Generate your Business E-Card</a>
	<p>Regards,<br>BizEase, Government of NCT of Delhi</p>
</body>
</html>`,
		},
		string(models.NotificationECardIssued): {
			Subject: "Your Business E-Card",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.OwnerName}},</h2>
	<p>The Business E-Card for {{.BusinessName}} has been issued and is valid until {{.ValidUntil}}.</p>
	<a href="{{.VerifyURL}}">Verify online</a>
	<p>Regards,<br>BizEase, Government of NCT of Delhi</p>
</body>
</html>`,
		},
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	return EmailTemplate{
		Subject: "BizEase notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
