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

type BusinessHandler struct {
	businessService *services.BusinessService
}

func NewBusinessHandler(businessService *services.BusinessService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
	}
}

// POST /businesses
func (h *BusinessHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.businessService.Register(c.Request.Context(), currentUserID(c), &req)
	if result == nil {
		logrus.WithError(err).Error("Business registration failed")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.CreatedResponse(c, withWarning(gin.H{
		"message":   i18n.T(lang, i18n.KeyBusinessRegistered),
		"business":  result.Business,
		"checklist": result.Checklist,
	}, persistenceWarning(c, err)))
}

// GET /businesses
func (h *BusinessHandler) ListMine(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	q, err := utils.ParseListQuery(c, services.BusinessListing)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, utils.CodeInvalidListQuery, err.Error(), nil)
		return
	}
	businesses, total, err := h.businessService.ListForOwner(c.Request.Context(), *userID, q)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.ListResponse(c, businesses, q.Meta(total))
}

// GET /businesses/:id
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	business, ok := loadBusiness(c, h.businessService)
	if !ok {
		return
	}

	utils.SuccessResponse(c, gin.H{
		"business": business,
	})
}

// GET /businesses/registration/:registrationId
func (h *BusinessHandler) GetByRegistrationID(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	registrationID := c.Param("registrationId")
	if !utils.IsRegistrationID(registrationID) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "registration id"), nil)
		return
	}

	business, err := h.businessService.GetByRegistrationID(c.Request.Context(), registrationID)
	if err != nil {
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.NotFoundResponse(c, i18n.KeyBusinessNotFound)
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"business": business,
	})
}

// PUT /businesses/:id/profile
func (h *BusinessHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.businessService.UpdateProfile(c.Request.Context(), id, req.Profile)
	if result == nil {
		if errors.Is(err, services.ErrBusinessNotFound) {
			utils.NotFoundResponse(c, i18n.KeyBusinessNotFound)
			return
		}
		logrus.WithError(err).WithField("business_id", id.String()).Error("Profile update failed")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, withWarning(gin.H{
		"message":   i18n.T(lang, i18n.KeyBusinessProfileUpdated),
		"business":  result.Business,
		"checklist": result.Checklist,
	}, persistenceWarning(c, err)))
}
