// internal/handlers/user.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bizease/bizease-backend/internal/i18n"
	"github.com/bizease/bizease-backend/internal/services"
	"github.com/bizease/bizease-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// PUT /users/me
func (h *UserHandler) UpdateContact(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID := currentUserID(c)
	if userID == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.userService.UpdateContact(c.Request.Context(), *userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, i18n.KeyAuthUserNotFound)
		case errors.Is(err, services.ErrEmailTaken):
			utils.Fail(c, http.StatusConflict, utils.CodeEmailTaken, i18n.T(lang, i18n.KeyValidationInvalid, "email"), nil)
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user":    user,
		"message": i18n.T(lang, i18n.KeyUserProfileUpdated),
	})
}

// DELETE /users/me
func (h *UserHandler) Deactivate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID := currentUserID(c)
	if userID == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), *userID); err != nil {
		switch {
		case errors.Is(err, services.ErrOwnsCompliantBusiness):
			utils.Fail(c, http.StatusConflict, utils.CodeHasCompliantBusinesses, i18n.T(lang, i18n.KeyUserHasBusinesses), nil)
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, i18n.KeyAuthUserNotFound)
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserDeactivated),
	})
}
