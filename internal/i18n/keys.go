// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"
	KeyAccessDenied  = "error.access_denied"

	// Authentication
	KeyAuthRequired       = "auth.required"
	KeyAuthInvalidToken   = "auth.invalid_token"
	KeyAuthTokenExpired   = "auth.token_expired"
	KeyAuthLoginSuccess   = "auth.login_success"
	KeyAuthUserNotFound   = "auth.user_not_found"
	KeyAuthDigiLockerFail = "auth.digilocker_failed"

	// Account
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserDeactivated    = "user.deactivated"
	KeyUserHasBusinesses  = "user.has_active_businesses"

	// Business
	KeyBusinessRegistered     = "business.registered"
	KeyBusinessNotFound       = "business.not_found"
	KeyBusinessProfileUpdated = "business.profile_updated"

	// Checklist
	KeyChecklistItemNotFound = "checklist_item.not_found"
	KeyChecklistUpdated      = "checklist.updated"
	KeyChecklistSaveWarning  = "checklist.save_warning"
	KeyChecklistIncomplete   = "checklist.incomplete"

	// E-card
	KeyECardIssued        = "ecard.issued"
	KeyECardNotFound      = "ecard.not_found"
	KeyECardDegraded      = "ecard.degraded"
	KeyVerificationFailed = "verification.failed"

	// Notifications
	KeyNotificationNotFound = "notification.not_found"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"
)
