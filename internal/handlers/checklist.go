package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bizease/bizease-backend/internal/compliance"
	"github.com/bizease/bizease-backend/internal/i18n"
	"github.com/bizease/bizease-backend/internal/models"
	"github.com/bizease/bizease-backend/internal/services"
	"github.com/bizease/bizease-backend/internal/utils"
)

type ChecklistHandler struct {
	businessService  *services.BusinessService
	checklistService *services.ChecklistService
}

func NewChecklistHandler(businessService *services.BusinessService, checklistService *services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{
		businessService:  businessService,
		checklistService: checklistService,
	}
}

// GET /businesses/:id/checklist
func (h *ChecklistHandler) GetChecklist(c *gin.Context) {
	business, ok := loadBusiness(c, h.businessService)
	if !ok {
		return
	}

	view, err := h.checklistService.GetChecklist(c.Request.Context(), business)
	if view == nil {
		logrus.WithError(err).WithField("business_id", business.ID.String()).Error("Failed to open checklist")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, withWarning(gin.H{
		"checklist": view,
	}, persistenceWarning(c, err)))
}

// PUT /businesses/:id/checklist/:itemId
func (h *ChecklistHandler) UpdateItemStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	business, ok := loadBusiness(c, h.businessService)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req services.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	item, progress, err := h.checklistService.UpdateItemStatus(c.Request.Context(), business, itemID, models.ChecklistStatus(req.Status))
	if item == nil {
		switch {
		case errors.Is(err, compliance.ErrItemNotFound):
			utils.NotFoundResponse(c, i18n.KeyChecklistItemNotFound)
		case errors.Is(err, compliance.ErrInvalidStatus):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), nil)
		default:
			logrus.WithError(err).WithField("business_id", business.ID.String()).Error("Failed to update checklist item")
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, withWarning(gin.H{
		"message":  i18n.T(lang, i18n.KeyChecklistUpdated),
		"item":     item,
		"progress": progress,
	}, persistenceWarning(c, err)))
}

// GET /businesses/:id/checklist/progress
func (h *ChecklistHandler) GetProgress(c *gin.Context) {
	business, ok := loadBusiness(c, h.businessService)
	if !ok {
		return
	}

	progress, err := h.checklistService.Progress(c.Request.Context(), business)
	if progress == nil {
		logrus.WithError(err).Error("Failed to compute progress")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"progress": progress,
	})
}

// GET /businesses/:id/dashboard
func (h *ChecklistHandler) GetDashboard(c *gin.Context) {
	business, ok := loadBusiness(c, h.businessService)
	if !ok {
		return
	}

	dashboard, err := h.checklistService.Dashboard(c.Request.Context(), business)
	if dashboard == nil {
		logrus.WithError(err).Error("Failed to build dashboard")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, withWarning(gin.H{
		"dashboard": dashboard,
		"business":  business,
	}, persistenceWarning(c, err)))
}

// POST /checklist/preview
func (h *ChecklistHandler) Preview(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var profile models.BusinessProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&profile)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	requirements := h.checklistService.Preview(profile.Normalize())
	utils.SuccessResponse(c, gin.H{
		"requirements": requirements,
		"total":        len(requirements),
	})
}
