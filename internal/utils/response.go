package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bizease/bizease-backend/internal/i18n"
)

// ErrorCode is the machine-readable half of an error body. Clients switch
// on it; the message is localized and may change.
type ErrorCode string

const (
	CodeBadRequest             ErrorCode = "BAD_REQUEST"
	CodeValidation             ErrorCode = "VALIDATION_ERROR"
	CodeInvalidListQuery       ErrorCode = "INVALID_LIST_QUERY"
	CodeUnauthorized           ErrorCode = "UNAUTHORIZED"
	CodeForbidden              ErrorCode = "FORBIDDEN"
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeEmailTaken             ErrorCode = "EMAIL_TAKEN"
	CodeHasCompliantBusinesses ErrorCode = "HAS_COMPLIANT_BUSINESSES"
	CodeChecklistIncomplete    ErrorCode = "CHECKLIST_INCOMPLETE"
	CodeInvalidQRPayload       ErrorCode = "INVALID_QR_PAYLOAD"
	CodeIdentityProvider       ErrorCode = "IDENTITY_PROVIDER_ERROR"
	CodeRateLimited            ErrorCode = "RATE_LIMITED"
	CodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// Envelope wraps every JSON body the API returns.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func respond(c *gin.Context, status int, body Envelope) {
	body.RequestID = GetRequestIDFromContext(c)
	c.JSON(status, body)
}

func SuccessResponse(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, Envelope{Success: true, Data: data})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	respond(c, http.StatusCreated, Envelope{Success: true, Data: data})
}

// ListResponse writes one page of a listing. X-Total-Count mirrors
// meta.Total for clients that only read headers.
func ListResponse(c *gin.Context, items interface{}, meta PageMeta) {
	c.Header("X-Total-Count", strconv.FormatInt(meta.Total, 10))
	respond(c, http.StatusOK, Envelope{Success: true, Data: items, Meta: gin.H{"pagination": meta}})
}

func Fail(c *gin.Context, status int, code ErrorCode, message string, details interface{}) {
	respond(c, status, Envelope{Error: &APIError{Code: code, Message: message, Details: details}})
}

// failOr uses message, or the localized text of key when message is empty.
func failOr(c *gin.Context, status int, code ErrorCode, message, key string, args ...interface{}) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), key, args...)
	}
	Fail(c, status, code, message, nil)
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "request")
	}
	Fail(c, http.StatusBadRequest, CodeBadRequest, message, details)
}

func ValidationErrorResponse(c *gin.Context, errs []ValidationError) {
	Fail(c, http.StatusBadRequest, CodeValidation, i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "input"), errs)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	failOr(c, http.StatusUnauthorized, CodeUnauthorized, message, i18n.KeyAuthRequired)
}

func ForbiddenResponse(c *gin.Context, message string) {
	failOr(c, http.StatusForbidden, CodeForbidden, message, i18n.KeyAccessDenied)
}

// NotFoundResponse answers 404 with the localized text of key, one of the
// i18n "*.not_found" keys.
func NotFoundResponse(c *gin.Context, key string) {
	failOr(c, http.StatusNotFound, CodeNotFound, "", key)
}

func InternalErrorResponse(c *gin.Context, message string) {
	failOr(c, http.StatusInternalServerError, CodeInternal, message, i18n.KeyInternalError)
}

func contextString(c *gin.Context, key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetLangFromContext returns the language chosen by the i18n middleware,
// English when it did not run.
func GetLangFromContext(c *gin.Context) string {
	if lang, ok := contextString(c, "lang"); ok {
		return lang
	}
	return "en"
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return contextString(c, "user_id")
}

func GetRequestIDFromContext(c *gin.Context) string {
	id, _ := contextString(c, "request_id")
	return id
}
