package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bizease/bizease-backend/internal/i18n"
	"github.com/bizease/bizease-backend/internal/services"
	"github.com/bizease/bizease-backend/internal/utils"
)

type ECardHandler struct {
	businessService *services.BusinessService
	ecardService    *services.ECardService
}

func NewECardHandler(businessService *services.BusinessService, ecardService *services.ECardService) *ECardHandler {
	return &ECardHandler{
		businessService: businessService,
		ecardService:    ecardService,
	}
}

// POST /businesses/:id/ecard
func (h *ECardHandler) Issue(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	business, ok := loadBusiness(c, h.businessService)
	if !ok {
		return
	}

	card, err := h.ecardService.Issue(c.Request.Context(), business)
	if err != nil {
		if errors.Is(err, services.ErrChecklistIncomplete) {
			utils.Fail(c, http.StatusConflict, utils.CodeChecklistIncomplete, i18n.T(lang, i18n.KeyChecklistIncomplete), nil)
			return
		}
		logrus.WithError(err).WithField("business_id", business.ID.String()).Error("E-card issuance failed")
		utils.InternalErrorResponse(c, "")
		return
	}

	message := i18n.T(lang, i18n.KeyECardIssued)
	if card.Degraded {
		message = i18n.T(lang, i18n.KeyECardDegraded)
	}

	utils.CreatedResponse(c, gin.H{
		"message": message,
		"ecard":   card,
	})
}

// GET /businesses/:id/ecard
func (h *ECardHandler) GetLatest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	card, err := h.ecardService.Latest(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrECardNotFound) {
			utils.NotFoundResponse(c, i18n.KeyECardNotFound)
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"ecard": card,
	})
}
