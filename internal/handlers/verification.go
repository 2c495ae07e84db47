// internal/handlers/verification.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bizease/bizease-backend/internal/i18n"
	"github.com/bizease/bizease-backend/internal/services"
	"github.com/bizease/bizease-backend/internal/utils"
)

const maxQRPayloadBytes = 4 << 10

type VerificationHandler struct {
	ecardService *services.ECardService
}

func NewVerificationHandler(ecardService *services.ECardService) *VerificationHandler {
	return &VerificationHandler{
		ecardService: ecardService,
	}
}

// GET /verify/:registrationId
func (h *VerificationHandler) VerifyByRegistrationID(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	registrationID := c.Param("registrationId")
	if !utils.IsRegistrationID(registrationID) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "registration id"), nil)
		return
	}

	result, err := h.ecardService.VerifyByRegistrationID(c.Request.Context(), registrationID)
	if err != nil {
		if errors.Is(err, services.ErrECardNotFound) {
			utils.NotFoundResponse(c, i18n.KeyECardNotFound)
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"verification": result,
	})
}

// POST /verify/qr
func (h *VerificationHandler) VerifyQRPayload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxQRPayloadBytes))
	if err != nil || len(raw) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "payload"), nil)
		return
	}

	result, err := h.ecardService.VerifyQRPayload(c.Request.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQRPayload):
			var details interface{}
			if result != nil {
				details = result.Errors
			}
			utils.Fail(c, http.StatusUnprocessableEntity, utils.CodeInvalidQRPayload, i18n.T(lang, i18n.KeyVerificationFailed), details)
		case errors.Is(err, services.ErrECardNotFound):
			utils.NotFoundResponse(c, i18n.KeyECardNotFound)
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"verification": result,
	})
}
