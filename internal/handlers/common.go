package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bizease/bizease-backend/internal/compliance"
	"github.com/bizease/bizease-backend/internal/i18n"
	"github.com/bizease/bizease-backend/internal/models"
	"github.com/bizease/bizease-backend/internal/services"
	"github.com/bizease/bizease-backend/internal/utils"
)

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID returns the authenticated caller, if any.
func currentUserID(c *gin.Context) *uuid.UUID {
	raw, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// persistenceWarning turns a non-fatal save failure into a user-facing
// warning. Any other error yields "".
func persistenceWarning(c *gin.Context, err error) string {
	if err == nil || !errors.Is(err, compliance.ErrPersistence) {
		return ""
	}
	return i18n.T(utils.GetLangFromContext(c), i18n.KeyChecklistSaveWarning)
}

func loadBusiness(c *gin.Context, businesses *services.BusinessService) (*models.Business, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	business, err := businesses.GetBusiness(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.NotFoundResponse(c, i18n.KeyBusinessNotFound)
			return nil, false
		}
		logrus.WithError(err).WithField("business_id", id.String()).Error("Failed to load business")
		utils.InternalErrorResponse(c, "")
		return nil, false
	}
	return business, true
}

func withWarning(data gin.H, warning string) gin.H {
	if warning != "" {
		data["warning"] = warning
	}
	return data
}
