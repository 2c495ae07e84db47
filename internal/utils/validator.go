// internal/utils/validator.go
package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bizease/bizease-backend/internal/models"
)

var validate *validator.Validate

var (
	phonePattern          = regexp.MustCompile(`^\+?[0-9][0-9 \-]{8,14}[0-9]$`)
	registrationIDPattern = regexp.MustCompile(`^(BIZ[0-9]{10,16}[A-Z0-9]{4}|BZ[0-9]{8})$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("business_structure", oneOfList(models.Structures))
	validate.RegisterValidation("industry", oneOfList(models.Industries))
	validate.RegisterValidation("business_size", oneOfList(models.Sizes))
	validate.RegisterValidation("turnover", oneOfList(models.Turnovers))
	validate.RegisterValidation("registration", oneOfList(models.Registrations))
	validate.RegisterValidation("checklist_status", validateChecklistStatus)
	validate.RegisterValidation("phone", validatePhone)
	validate.RegisterValidation("registration_id", validateRegistrationID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func oneOfList(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, a := range allowed {
			if a == value {
				return true
			}
		}
		return false
	}
}

func validateChecklistStatus(fl validator.FieldLevel) bool {
	return models.ChecklistStatus(fl.Field().String()).Valid()
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// IsRegistrationID accepts issued ids (BIZ<millis><4 base36>) and the
// fallback form BZ<8 digits>.
func IsRegistrationID(id string) bool {
	return registrationIDPattern.MatchString(id)
}

func validateRegistrationID(fl validator.FieldLevel) bool {
	return IsRegistrationID(fl.Field().String())
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "phone":
		return "Phone number must contain 10 to 16 digits"
	case "business_structure":
		return "Structure must be one of: " + strings.Join(models.Structures, ", ")
	case "industry":
		return "Industry must be one of: " + strings.Join(models.Industries, ", ")
	case "business_size":
		return "Size must be one of: " + strings.Join(models.Sizes, ", ")
	case "turnover":
		return "Turnover must be one of: " + strings.Join(models.Turnovers, ", ")
	case "registration":
		return "Unknown registration; expected one of: " + strings.Join(models.Registrations, ", ")
	case "checklist_status":
		return "Status must be one of: pending, in-progress, completed"
	case "registration_id":
		return "Invalid registration ID"
	default:
		return e.Field() + " is invalid"
	}
}
