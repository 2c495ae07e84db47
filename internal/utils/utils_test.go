package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizease/bizease-backend/internal/models"
)

func TestGenerateRegistrationID(t *testing.T) {
	now := time.UnixMilli(1718000000123)
	id, err := GenerateRegistrationID(now)
	require.NoError(t, err)

	assert.Regexp(t, `^BIZ1718000000123[0-9A-Z]{4}$`, id)
	assert.True(t, IsRegistrationID(id))
}

func TestFallbackRegistrationID(t *testing.T) {
	id := FallbackRegistrationID(time.UnixMilli(1718000000123))
	assert.Equal(t, "BZ00000123", id)
	assert.True(t, IsRegistrationID(id))
	assert.False(t, IsRegistrationID("XYZ123"))
}

func TestProfileValidation(t *testing.T) {
	valid := models.BusinessProfile{
		Structure:             models.StructureLLP,
		Industry:              models.IndustryRetail,
		Size:                  models.SizeSmall,
		ExistingRegistrations: []string{"pan", "gst"},
	}
	assert.NoError(t, ValidateStruct(&valid))

	invalid := valid
	invalid.Structure = "corporation"
	invalid.ExistingRegistrations = []string{"passport"}
	errs := GetValidationErrors(ValidateStruct(&invalid))
	require.Len(t, errs, 2)

	tags := []string{errs[0].Tag, errs[1].Tag}
	assert.Contains(t, tags, "business_structure")
	assert.Contains(t, tags, "registration")
}

func TestChecklistStatusValidation(t *testing.T) {
	type req struct {
		Status string `validate:"required,checklist_status"`
	}
	assert.NoError(t, ValidateStruct(&req{Status: "in-progress"}))
	assert.Error(t, ValidateStruct(&req{Status: "done"}))
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	userID := uuid.New()

	token, err := GenerateJWT(userID, "Rajesh Kumar", "rajesh.kumar@email.com", true, 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.True(t, claims.IsVerified)

	refresh, err := GenerateRefreshToken(userID, 1)
	require.NoError(t, err)
	subject, err := ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), subject)

	// an access token is not a refresh token
	_, err = ValidateRefreshToken(token)
	assert.Error(t, err)
}
