package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bizease/bizease-backend/internal/i18n"
	"github.com/bizease/bizease-backend/internal/services"
	"github.com/bizease/bizease-backend/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	q, err := utils.ParseListQuery(c, services.NotificationListing)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, utils.CodeInvalidListQuery, err.Error(), nil)
		return
	}
	notifications, total, err := h.notificationService.ListForUser(c.Request.Context(), *userID, q)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.ListResponse(c, notifications, q.Meta(total))
}

// PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), *userID, id); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			utils.NotFoundResponse(c, i18n.KeyNotificationNotFound)
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"id":     id,
		"status": "read",
	})
}
